package payment

import (
	"crypto/sha1"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	boletoFactorBase = time.Date(1997, 10, 7, 0, 0, 0, 0, time.UTC)
)

const boletoCurrencyBRL = "9"

// BoletoDueFactor is the number of days between the FEBRABAN base date and
// the due date. The factor rolls over from 9999 back to 1000.
func BoletoDueFactor(due time.Time) int {
	d := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, time.UTC)
	factor := int(d.Sub(boletoFactorBase).Hours() / 24)
	if factor > 9999 {
		factor = (factor-10000)%9000 + 1000
	}
	return factor
}

// BoletoBarcode builds the 44-digit bar code for a charge
func BoletoBarcode(bankCode string, due time.Time, amount decimal.Decimal, ref uuid.UUID) string {
	cents := amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	body := bankCode + boletoCurrencyBRL +
		fmt.Sprintf("%04d", BoletoDueFactor(due)) +
		fmt.Sprintf("%010d", cents) +
		boletoFreeField(ref)
	dv := mod11(body)
	return body[:4] + strconv.Itoa(dv) + body[4:]
}

// BoletoDigitableLine turns a bar code into the 47-digit typed line
// formatted as "AAAAA.AAAAA BBBBB.BBBBBB CCCCC.CCCCCC D EEEEEEEEEEEEEE"
func BoletoDigitableLine(barcode string) string {
	free := barcode[19:]
	f1 := barcode[0:4] + free[0:5]
	f1 += strconv.Itoa(mod10(f1))
	f2 := free[5:15]
	f2 += strconv.Itoa(mod10(f2))
	f3 := free[15:25]
	f3 += strconv.Itoa(mod10(f3))
	f4 := barcode[4:5]
	f5 := barcode[5:19]

	return f1[:5] + "." + f1[5:] + " " +
		f2[:5] + "." + f2[5:] + " " +
		f3[:5] + "." + f3[5:] + " " +
		f4 + " " + f5
}

// boletoFreeField derives the 25 bank-defined digits from the order reference
func boletoFreeField(ref uuid.UUID) string {
	sum := sha1.Sum(ref[:])
	var b strings.Builder
	for _, c := range sum {
		b.WriteString(fmt.Sprintf("%03d", c))
		if b.Len() >= 25 {
			break
		}
	}
	return b.String()[:25]
}

// mod10 weights digits 2,1,2,1... from the right and sums the digits of each product
func mod10(digits string) int {
	sum := 0
	weight := 2
	for i := len(digits) - 1; i >= 0; i-- {
		p := int(digits[i]-'0') * weight
		sum += p/10 + p%10
		if weight == 2 {
			weight = 1
		} else {
			weight = 2
		}
	}
	return (10 - sum%10) % 10
}

// mod11 weights digits 2..9 from the right; 0, 10 and 11 map to 1
func mod11(digits string) int {
	sum := 0
	weight := 2
	for i := len(digits) - 1; i >= 0; i-- {
		sum += int(digits[i]-'0') * weight
		weight++
		if weight > 9 {
			weight = 2
		}
	}
	dv := 11 - sum%11
	if dv == 0 || dv == 10 || dv == 11 {
		return 1
	}
	return dv
}
