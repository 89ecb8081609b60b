package cdvd

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/infinivision/cdvdcache/constant"
	"github.com/infinivision/cdvdcache/disk"
	"github.com/infinivision/cdvdcache/errmsg"
	"github.com/infinivision/cdvdcache/sector"
	"github.com/infinivision/cdvdcache/status"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.IdleWait = 5 * time.Millisecond
	cfg.NotReadyPoll = 5 * time.Millisecond
	cfg.CompletionPoll = time.Millisecond
	cfg.LogWriter = GinkgoWriter
	return cfg
}

func logical(lsn int64) []byte {
	b := make([]byte, constant.DataSectorSize)
	for i := range b {
		b[i] = byte(lsn) ^ byte(i)
	}
	return b
}

func fillRaw(lsn int64, n int, buf []byte) error {
	for i := 0; i < n; i++ {
		s := buf[i*constant.RawSectorSize : (i+1)*constant.RawSectorSize]
		for j := range s {
			s[j] = byte(lsn+int64(i)) + byte(j)
		}
	}
	return nil
}

var _ = Describe("CDVD", func() {
	Context("with a mocked disk", func() {
		var (
			mockCtrl *gomock.Controller
			d        *MockDisk
			cd       *cdvd
		)

		BeforeEach(func() {
			mockCtrl = gomock.NewController(GinkgoT())
			d = NewMockDisk(mockCtrl)
			d.EXPECT().Sectors().Return(int64(1000)).AnyTimes()
			d.EXPECT().MediaType().Return(disk.CD).AnyTimes()
			d.EXPECT().ReadTOC().Return(disk.TOC{First: 1, Last: 1}, nil).AnyTimes()
		})

		AfterEach(func() {
			if cd != nil {
				cd.Close()
				cd = nil
			}
			mockCtrl.Finish()
		})

		openWith := func(cfg Config) {
			var err error
			cd, err = Open(d, cfg)
			Expect(err).NotTo(HaveOccurred())
		}
		open := func() { openWith(testConfig()) }

		It("should serve a miss once and answer the next request from the cache", func() {
			d.EXPECT().Ready().Return(true).AnyTimes()
			d.EXPECT().ReadRaw(int64(160), 16, gomock.Any()).DoAndReturn(fillRaw).Times(1)
			d.EXPECT().ReadRaw(gomock.Not(int64(160)), gomock.Any(), gomock.Any()).
				DoAndReturn(fillRaw).AnyTimes()
			open()
			Expect(cd.DiscType()).To(Equal(status.CD))

			Expect(cd.RequestSector(165, sector.Mode2352)).To(Succeed())
			v, err := cd.GetSector(165, sector.Mode2352)
			Expect(err).NotTo(HaveOccurred())
			Expect(v.Len()).To(Equal(constant.RawSectorSize))
			Expect(v.At(0)).To(Equal(byte(165)))
			Expect(v.At(7)).To(Equal(byte(172)))

			Expect(cd.RequestSector(170, sector.Mode2352)).To(Succeed())
			Expect(cd.IsRequestComplete()).To(BeTrue())
			v, err = cd.GetSector(170, sector.Mode2352)
			Expect(err).NotTo(HaveOccurred())
			Expect(v.At(0)).To(Equal(byte(170)))
			Expect(cd.Stats().Hits).To(BeNumerically(">=", 1))
		})

		It("should reject sectors past the end without touching the disk", func() {
			d.EXPECT().Ready().Return(true).AnyTimes()
			open()
			err := cd.RequestSector(1000, sector.Mode2048)
			Expect(errors.Is(err, errmsg.OutOfRange)).To(BeTrue())
			Expect(cd.IsRequestComplete()).To(BeTrue())
			err = cd.DirectReadSector(1000, sector.Mode2048, make([]byte, constant.DataSectorSize))
			Expect(errors.Is(err, errmsg.OutOfRange)).To(BeTrue())
		})

		It("should reject invalid modes", func() {
			d.EXPECT().Ready().Return(true).AnyTimes()
			open()
			Expect(errors.Is(cd.RequestSector(10, sector.Mode(7)), errmsg.InvalidMode)).To(BeTrue())
			Expect(errors.Is(cd.RequestSector(10, sector.None), errmsg.InvalidMode)).To(BeTrue())
		})

		It("should surface a block that fails every attempt", func() {
			d.EXPECT().Ready().Return(true).AnyTimes()
			d.EXPECT().ReadLogical(int64(160), 16, gomock.Any()).
				Return(errors.New("medium error")).Times(constant.ReadTries)
			cfg := testConfig()
			cfg.PrefetchBlocks = 0
			openWith(cfg)
			Expect(cd.RequestSector(161, sector.Mode2048)).To(Succeed())
			_, err := cd.GetSector(161, sector.Mode2048)
			Expect(errors.Is(err, errmsg.ReadFailed)).To(BeTrue())
			Expect(cd.c.Contains(160, sector.Mode2048)).To(BeFalse())
		})

		It("should give up waiting once closed", func() {
			d.EXPECT().Ready().Return(false).AnyTimes()
			open()
			Expect(cd.RequestSector(50, sector.Mode2048)).To(Succeed())
			Expect(cd.IsRequestComplete()).To(BeFalse())
			closed := make(chan error)
			go func() {
				time.Sleep(20 * time.Millisecond)
				closed <- cd.Close()
			}()
			_, err := cd.GetSector(50, sector.Mode2048)
			Expect(errors.Is(err, errmsg.NotOpen)).To(BeTrue())
			Eventually(closed).Should(Receive(BeNil()))
			cd = nil
		})

		It("should close once", func() {
			d.EXPECT().Ready().Return(true).AnyTimes()
			open()
			done := make(chan error)
			go func() { done <- cd.Close() }()
			Eventually(done).Should(Receive(BeNil()))
			Expect(cd.Close()).To(MatchError(errmsg.NotOpen))
			Expect(cd.RequestSector(0, sector.Mode2048)).To(MatchError(errmsg.NotOpen))
			cd = nil
		})
	})

	Context("with a memory disk", func() {
		var (
			d     *disk.Memory
			cd    *cdvd
			calls int32
		)

		BeforeEach(func() {
			atomic.StoreInt32(&calls, 0)
			d = disk.NewMemory(1000, disk.CD)
			for lsn := int64(0); lsn < 1000; lsn++ {
				d.WriteLogical(lsn, logical(lsn))
			}
			cfg := testConfig()
			cfg.OnDiscChanged = func() { atomic.AddInt32(&calls, 1) }
			var err error
			cd, err = Open(d, cfg)
			Expect(err).NotTo(HaveOccurred())
		})

		AfterEach(func() {
			cd.Close()
		})

		It("should complete a cached request synchronously", func() {
			blk := make([]byte, constant.BlockSectors*constant.DataSectorSize)
			for i := int64(0); i < constant.BlockSectors; i++ {
				copy(blk[i*constant.DataSectorSize:], logical(160+i))
			}
			cd.c.Update(160, sector.Mode2048, blk)

			Expect(cd.RequestSector(165, sector.Mode2048)).To(Succeed())
			Expect(cd.IsRequestComplete()).To(BeTrue())
			v, err := cd.GetSector(165, sector.Mode2048)
			Expect(err).NotTo(HaveOccurred())
			Expect(v.Bytes()).To(Equal(blk[5*constant.DataSectorSize : 6*constant.DataSectorSize]))
		})

		It("should read directly in every mode", func() {
			raw := make([]byte, constant.RawSectorSize)
			Expect(d.ReadRaw(165, 1, raw)).To(Succeed())

			buf := make([]byte, constant.RawSectorSize)
			Expect(cd.DirectReadSector(165, sector.Mode2352, buf)).To(Succeed())
			Expect(buf).To(Equal(raw))
			Expect(cd.DirectReadSector(165, sector.Mode2328, buf)).To(Succeed())
			Expect(buf[:2328]).To(Equal(raw[24 : 24+2328]))
			Expect(cd.DirectReadSector(165, sector.Mode2048, buf)).To(Succeed())
			Expect(buf[:constant.DataSectorSize]).To(Equal(logical(165)))

			err := cd.DirectReadSector(165, sector.Mode2352, make([]byte, 16))
			Expect(errors.Is(err, errmsg.ShortBuffer)).To(BeTrue())
			Expect(cd.IsRequestComplete()).To(BeTrue())
		})

		It("should report and recover from a disc swap", func() {
			Expect(cd.DiscType()).To(Equal(status.CD))
			Expect(cd.TrayStatus()).To(Equal(status.TrayClosed))
			Expect(cd.MediaType()).To(Equal(disk.CD))
			Expect(cd.DirectReadSector(160, sector.Mode2048, make([]byte, constant.DataSectorSize))).To(Succeed())
			Expect(cd.c.Contains(160, sector.Mode2048)).To(BeTrue())

			d.SetReady(false)
			Eventually(func() int32 { return atomic.LoadInt32(&calls) }).Should(Equal(int32(1)))
			Expect(cd.DiscType()).To(Equal(status.NoDisc))
			Expect(cd.TrayStatus()).To(Equal(status.TrayOpen))

			d.SetReady(true)
			Eventually(func() int32 { return atomic.LoadInt32(&calls) }).Should(Equal(int32(2)))
			Expect(cd.DiscType()).To(Equal(status.CD))
			Expect(cd.TrayStatus()).To(Equal(status.TrayClosed))
			Expect(cd.c.Contains(160, sector.Mode2048)).To(BeFalse())

			Expect(cd.RequestSector(165, sector.Mode2048)).To(Succeed())
			v, err := cd.GetSector(165, sector.Mode2048)
			Expect(err).NotTo(HaveOccurred())
			Expect(v.Bytes()).To(Equal(logical(165)))
		})

		It("should drop cached blocks on refresh", func() {
			Expect(cd.DirectReadSector(32, sector.Mode2048, make([]byte, constant.DataSectorSize))).To(Succeed())
			Expect(cd.RefreshDiscData()).To(Succeed())
			Expect(cd.c.Contains(32, sector.Mode2048)).To(BeFalse())
		})
	})

	It("should close from inside the disc changed callback", func() {
		d := disk.NewMemory(64, disk.CD)
		closed := make(chan error, 1)
		var cd *cdvd
		cfg := testConfig()
		cfg.OnDiscChanged = func() { closed <- cd.Close() }
		cd, err := Open(d, cfg)
		Expect(err).NotTo(HaveOccurred())

		d.SetReady(false)

		Eventually(closed).Should(Receive(BeNil()))
		Eventually(cd.schd.Done()).Should(BeClosed())
		Expect(cd.Close()).To(MatchError(errmsg.NotOpen))
		Expect(cd.RequestSector(0, sector.Mode2048)).To(MatchError(errmsg.NotOpen))
	})

	It("should refuse to open without a disk or with a bad config", func() {
		_, err := Open(nil, DefaultConfig())
		Expect(errors.Is(err, errmsg.OpenFailed)).To(BeTrue())

		cfg := DefaultConfig()
		cfg.CacheBits = 0
		_, err = Open(disk.NewMemory(16, disk.CD), cfg)
		Expect(errors.Is(err, errmsg.InvalidConfig)).To(BeTrue())
	})
})
