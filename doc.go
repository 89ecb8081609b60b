/*
Package cdvdcache implements the sector cache of an emulated CD/DVD drive in pure Go.
A direct-mapped cache of 16-sector blocks sits in front of a disc image, a single
outstanding request is served by a background worker that prefetches the blocks
that follow, and disc insertion and removal are tracked on every worker cycle.
*/
package cdvdcache
