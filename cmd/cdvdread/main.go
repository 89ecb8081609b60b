package main

import "github.com/infinivision/cdvdcache/cmd/cdvdread/cmd"

func main() {
	cmd.Execute()
}
