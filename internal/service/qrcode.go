package service

import (
	"github.com/skip2/go-qrcode"
)

type QRGenerator interface {
	Generate(payload []byte) ([]byte, error)
}

type DefaultQRGenerator struct{}

func (DefaultQRGenerator) Generate(payload []byte) ([]byte, error) {
	return qrcode.Encode(string(payload), qrcode.Medium, 256)
}
