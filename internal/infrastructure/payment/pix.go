package payment

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// EMV field ids used by the BR Code (PIX copy-and-paste) payload
const (
	pixPayloadFormat     = "00"
	pixMerchantAccount   = "26"
	pixMerchantCategory  = "52"
	pixCurrency          = "53"
	pixAmount            = "54"
	pixCountry           = "58"
	pixMerchantName      = "59"
	pixMerchantCity      = "60"
	pixAdditionalData    = "62"
	pixCRC               = "63"
	pixGUI               = "br.gov.bcb.pix"
	pixCurrencyBRL       = "986"
	pixMaxNameLength     = 25
	pixMaxCityLength     = 15
	pixMaxTxIDLength     = 25
	pixDefaultTxID       = "***"
	pixCategoryUndefined = "0000"
)

// PixCharge is the data encoded in a BR Code
type PixCharge struct {
	Key          string
	MerchantName string
	MerchantCity string
	Amount       decimal.Decimal
	TxID         string
}

// BuildPixPayload encodes the charge as an EMV BR Code terminated by its CRC16
func BuildPixPayload(c PixCharge) string {
	account := emvField("00", pixGUI) + emvField("01", c.Key)

	var b strings.Builder
	b.WriteString(emvField(pixPayloadFormat, "01"))
	b.WriteString(emvField(pixMerchantAccount, account))
	b.WriteString(emvField(pixMerchantCategory, pixCategoryUndefined))
	b.WriteString(emvField(pixCurrency, pixCurrencyBRL))
	if c.Amount.IsPositive() {
		b.WriteString(emvField(pixAmount, c.Amount.StringFixed(2)))
	}
	b.WriteString(emvField(pixCountry, "BR"))
	b.WriteString(emvField(pixMerchantName, truncate(asciiUpper(c.MerchantName), pixMaxNameLength)))
	b.WriteString(emvField(pixMerchantCity, truncate(asciiUpper(c.MerchantCity), pixMaxCityLength)))
	b.WriteString(emvField(pixAdditionalData, emvField("05", pixTxID(c.TxID))))

	// the checksum covers its own id and length
	b.WriteString(pixCRC + "04")
	b.WriteString(fmt.Sprintf("%04X", CRC16CCITT([]byte(b.String()))))
	return b.String()
}

// ValidPixPayload recomputes the trailing checksum
func ValidPixPayload(payload string) bool {
	if len(payload) < 8 || payload[len(payload)-8:len(payload)-4] != pixCRC+"04" {
		return false
	}
	body := payload[:len(payload)-4]
	return fmt.Sprintf("%04X", CRC16CCITT([]byte(body))) == payload[len(payload)-4:]
}

// CRC16CCITT is CRC-16/CCITT-FALSE (poly 0x1021, init 0xFFFF)
func CRC16CCITT(data []byte) uint16 {
	crc := uint16(0xFFFF)
	for _, b := range data {
		crc ^= uint16(b) << 8
		for range 8 {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}

func emvField(id, value string) string {
	return fmt.Sprintf("%s%02d%s", id, len(value), value)
}

// asciiUpper strips accents so field lengths count bytes the way readers expect
func asciiUpper(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToUpper(strings.TrimSpace(out))
}

func pixTxID(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return pixDefaultTxID
	}
	return truncate(b.String(), pixMaxTxIDLength)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
