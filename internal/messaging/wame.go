package messaging

import (
	"net/url"
	"strings"

	"github.com/skip2/go-qrcode"
)

// WaMeLink строит https://wa.me/<digits>?text=<message>
func WaMeLink(phone, text string) string {
	link := "https://wa.me/" + NormalizePhone(phone)
	if text == "" {
		return link
	}
	// wa.me не понимает '+' как пробел
	return link + "?text=" + strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
}

// QRCodePNG кодирует content в PNG заданного размера (в пикселях)
func QRCodePNG(content string, size int) ([]byte, error) {
	if size <= 0 {
		size = 256
	}
	return qrcode.Encode(content, qrcode.Medium, size)
}
