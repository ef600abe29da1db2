// Package framebuffer writes RGBA frames to linux /dev/fbN.
package framebuffer

import (
	"encoding/binary"
	"image"
	"io"
	"os"
	"unsafe"

	"github.com/juju/errors"
	"golang.org/x/sys/unix"
)

type Framebuffer struct {
	buf    []byte
	stride int
	dev    io.WriterAt
	closer io.Closer
	finfo  fixedScreenInfo
	vinfo  variableScreenInfo
}

func New(dev string) (*Framebuffer, error) {
	devFile, err := os.OpenFile(dev, os.O_RDWR, os.ModeDevice)
	if err != nil {
		return nil, errors.Annotate(err, "open")
	}
	var finfo fixedScreenInfo
	var vinfo variableScreenInfo
	fd := devFile.Fd()
	if err = ioctl(fd, getFixedScreenInfo, uintptr(unsafe.Pointer(&finfo))); err != nil {
		devFile.Close()
		return nil, errors.Annotate(err, "getFixedScreenInfo")
	}
	if err = ioctl(fd, getVariableScreenInfo, uintptr(unsafe.Pointer(&vinfo))); err != nil {
		devFile.Close()
		return nil, errors.Annotate(err, "getVariableScreenInfo")
	}
	fb, err := newFramebuffer(devFile, finfo, vinfo)
	if err != nil {
		devFile.Close()
		return nil, err
	}
	fb.closer = devFile
	return fb, nil
}

func newFramebuffer(dev io.WriterAt, finfo fixedScreenInfo, vinfo variableScreenInfo) (*Framebuffer, error) {
	fb := &Framebuffer{dev: dev, finfo: finfo, vinfo: vinfo}
	if fb.format() == formatUnknown {
		return nil, errors.NotSupportedf("color model bpp=%d red=%v green=%v blue=%v",
			vinfo.Bits_per_pixel, vinfo.Red, vinfo.Green, vinfo.Blue)
	}
	fb.stride = int(finfo.Line_length)
	if min := int(vinfo.Xres * vinfo.Bits_per_pixel / 8); fb.stride < min {
		fb.stride = min
	}
	fb.buf = make([]byte, fb.stride*int(vinfo.Yres))
	return fb, nil
}

func (fb *Framebuffer) Close() error {
	if fb.closer != nil {
		return fb.closer.Close()
	}
	return nil
}

func (fb *Framebuffer) Flush() error {
	_, err := fb.dev.WriteAt(fb.buf, 0)
	return errors.Annotate(err, "framebuffer write")
}

func (fb *Framebuffer) Size() image.Point {
	return image.Point{X: int(fb.vinfo.Xres), Y: int(fb.vinfo.Yres)}
}

type format uint8

const (
	formatUnknown format = iota
	formatRGB565
	formatXRGB8888
)

var rgb565 = variableScreenInfo{
	Bits_per_pixel: 16,
	Red:            bitField{Offset: 11, Length: 5},
	Green:          bitField{Offset: 5, Length: 6},
	Blue:           bitField{Offset: 0, Length: 5},
}

var xrgb8888 = variableScreenInfo{
	Bits_per_pixel: 32,
	Red:            bitField{Offset: 16, Length: 8},
	Green:          bitField{Offset: 8, Length: 8},
	Blue:           bitField{Offset: 0, Length: 8},
}

func sameModel(a, b *variableScreenInfo) bool {
	return a.Bits_per_pixel == b.Bits_per_pixel && a.Red == b.Red && a.Green == b.Green && a.Blue == b.Blue
}

func (fb *Framebuffer) format() format {
	switch {
	case sameModel(&fb.vinfo, &rgb565):
		return formatRGB565
	case sameModel(&fb.vinfo, &xrgb8888):
		return formatXRGB8888
	}
	return formatUnknown
}

// Update converts img into internal buffer, call Flush() to write to hardware.
// img must be display sized.
func (fb *Framebuffer) Update(img *image.RGBA) error {
	size := fb.Size()
	if img.Rect.Size() != size {
		return errors.NotValidf("image size=%v framebuffer size=%v", img.Rect.Size(), size)
	}
	f := fb.format()
	for y := 0; y < size.Y; y++ {
		row := fb.buf[y*fb.stride:]
		src := img.Pix[y*img.Stride:]
		for x := 0; x < size.X; x++ {
			p := src[x*4 : x*4+4]
			switch f {
			case formatRGB565:
				binary.LittleEndian.PutUint16(row[x*2:], encode565(p[0], p[1], p[2]))
			case formatXRGB8888:
				binary.LittleEndian.PutUint32(row[x*4:], uint32(p[0])<<16|uint32(p[1])<<8|uint32(p[2]))
			}
		}
	}
	return nil
}

func encode565(r, g, b uint8) uint16 {
	return (uint16(r) & 0xf8 << 8) | (uint16(g) & 0xfc << 3) | (uint16(b) & 0xf8 >> 3)
}

func ioctl(fd uintptr, cmd uintptr, data uintptr) error {
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, cmd, data); errno != 0 {
		return os.NewSyscallError("ioctl", errno)
	}
	return nil
}
