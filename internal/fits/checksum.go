package fits

import (
	"strconv"
	"strings"
)

// AddChecksum accumulates buf into the FITS 32-bit 1's-complement checksum.
// The buffer length must be a multiple of 4 (FITS regions always are).
func AddChecksum(sum uint32, buf []byte) uint32 {
	hi := sum >> 16
	lo := sum & 0xFFFF
	for i := 0; i+3 < len(buf); i += 4 {
		hi += uint32(buf[i])<<8 | uint32(buf[i+1])
		lo += uint32(buf[i+2])<<8 | uint32(buf[i+3])
	}
	hicarry := hi >> 16
	locarry := lo >> 16
	for hicarry != 0 || locarry != 0 {
		hi = (hi & 0xFFFF) + locarry
		lo = (lo & 0xFFFF) + hicarry
		hicarry = hi >> 16
		locarry = lo >> 16
	}
	return hi<<16 | lo
}

// checksumExcluded lists ASCII codes that must not appear in an encoded
// checksum string.
var checksumExcluded = []byte{
	0x3a, 0x3b, 0x3c, 0x3d, 0x3e, 0x3f, 0x40,
	0x5b, 0x5c, 0x5d, 0x5e, 0x5f, 0x60,
}

// EncodeChecksum renders a checksum as the 16-character ASCII form used by
// the CHECKSUM keyword. When complement is true, the 1's complement of sum
// is encoded (the convention that makes the whole-HDU sum 0xFFFFFFFF).
func EncodeChecksum(sum uint32, complement bool) string {
	if complement {
		sum = ^sum
	}
	var asc [16]byte
	for i := 0; i < 4; i++ {
		byt := (sum >> (24 - 8*uint(i))) & 0xFF
		quot := byt/4 + '0'
		rem := byt % 4
		ch := [4]uint32{quot, quot, quot, quot}
		ch[0] += rem
		for again := true; again; {
			again = false
			for _, x := range checksumExcluded {
				for j := 0; j < 4; j += 2 {
					if ch[j] == uint32(x) || ch[j+1] == uint32(x) {
						ch[j]++
						ch[j+1]--
						again = true
					}
				}
			}
		}
		for j := 0; j < 4; j++ {
			asc[4*j+i] = byte(ch[j])
		}
	}
	var out [16]byte
	for i := 0; i < 16; i++ {
		out[i] = asc[(i+15)%16]
	}
	return string(out[:])
}

func (f *File) sumRange(start, end int64) (uint32, error) {
	const chunk = 1 << 20
	sum := uint32(0)
	for off := start; off < end; {
		n := int64(chunk)
		if off+n > end {
			n = end - off
		}
		b, err := sliceExact(f.src, off, int(n))
		if err != nil {
			f.pushErr("reading bytes for checksum computation failed")
			return 0, err
		}
		sum = AddChecksum(sum, b)
		off += n
	}
	return sum, nil
}

// VerifyChecksum checks DATASUM and CHECKSUM of the current HDU. Each
// result is +1 when the stored value matches, -1 on mismatch, and 0 when
// the keyword is absent.
func (f *File) VerifyChecksum() (dataOK, hduOK int, err error) {
	h := &f.hdus[f.cur]

	if f.HasKey("DATASUM") {
		ds, _ := f.ReadKeyString("DATASUM")
		want, perr := strconv.ParseUint(strings.TrimSpace(ds), 10, 64)
		sum, serr := f.sumRange(h.dataStart, h.dataEnd)
		if serr != nil {
			return 0, 0, serr
		}
		if perr != nil || uint64(sum) != want {
			dataOK = -1
		} else {
			dataOK = 1
		}
	}

	if f.HasKey("CHECKSUM") {
		sum, serr := f.sumRange(h.headerStart, h.dataEnd)
		if serr != nil {
			return dataOK, 0, serr
		}
		if sum == 0xFFFFFFFF {
			hduOK = 1
		} else {
			hduOK = -1
		}
	}
	return dataOK, hduOK, nil
}
