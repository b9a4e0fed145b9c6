package brcode

import "fmt"

const (
	crcPolynomial = 0x1021
	crcInitial    = 0xFFFF

	// crcFieldHeader is the tag and fixed length of the checksum field.
	// It is part of the checksummed bytes.
	crcFieldHeader = TagCRC16 + "04"
)

// CRC16 computes CRC-16/CCITT-FALSE: polynomial 0x1021, initial value
// 0xFFFF, no reflection and no final XOR.
func CRC16(data []byte) uint16 {
	crc := uint32(crcInitial)
	for _, b := range data {
		crc ^= uint32(b) << 8
		for i := 0; i < 8; i++ {
			crc <<= 1
			if crc&0x10000 != 0 {
				crc ^= crcPolynomial
			}
			crc &= 0xFFFF
		}
	}

	return uint16(crc)
}

// Checksum returns the complete checksum field for basePayload: "6304"
// followed by four uppercase hex digits. The digits are zero padded so the
// field always matches its declared length.
func Checksum(basePayload string) string {
	data := make([]byte, 0, len(basePayload)+len(crcFieldHeader))
	data = append(data, basePayload...)
	data = append(data, crcFieldHeader...)

	return crcFieldHeader + fmt.Sprintf("%04X", CRC16(data))
}
