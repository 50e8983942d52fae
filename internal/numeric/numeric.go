package numeric

// numeric.go — arbitrary-precision display and finance math.
//
// Todo el dinero viaja como decimal.Decimal: nunca float64. El redondeo
// es siempre floor — un balance mostrado nunca debe verse mayor que el real.

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PPMResolution es la resolución de los ratios fixed-point del protocolo.
const PPMResolution = 1_000_000

var (
	oneMillion = decimal.NewFromInt(PPMResolution)

	secondsPerYear = decimal.NewFromInt(365 * 24 * 60 * 60)
)

// PPMToDec convierte un valor en parts-per-million a su fracción decimal.
func PPMToDec(ppm decimal.Decimal) decimal.Decimal {
	return ppm.Div(oneMillion)
}

// DecToPPM convierte una fracción decimal a PPM, truncando al entero (floor).
// El round-trip DecToPPM(PPMToDec(x)) == x solo se cumple para x entero.
func DecToPPM(dec decimal.Decimal) string {
	return dec.Mul(oneMillion).Floor().String()
}

// FromBaseUnits escala un amount en base units a su representación humana.
func FromBaseUnits(wei decimal.Decimal, decimals int) decimal.Decimal {
	return wei.Shift(int32(-decimals))
}

// ToBaseUnits escala un amount humano a base units, truncando al entero.
func ToBaseUnits(amount decimal.Decimal, decimals int) decimal.Decimal {
	return amount.Shift(int32(decimals)).Floor()
}

// Options controla el formato de Prettify.
type Options struct {
	// USD activa el formato de dólares ($, dos decimales).
	USD bool
	// Abbreviate colapsa valores > 999999 a notación K/M/B/T.
	Abbreviate bool
}

// Prettify formatea un amount decimal para mostrar, según una tabla de
// decisión fija. Todo truncado con floor, nunca round-half-up.
func Prettify(amount decimal.Decimal, opts Options) string {
	if opts.USD {
		return prettifyUSD(amount, opts.Abbreviate)
	}
	return prettifyToken(amount, opts.Abbreviate)
}

func prettifyUSD(amount decimal.Decimal, abbreviate bool) string {
	switch {
	case amount.Sign() <= 0:
		return "$0.00"
	case amount.LessThan(decimal.New(1, -2)):
		return "< $0.01"
	case abbreviate && amount.GreaterThan(decimal.NewFromInt(999_999)):
		return "$" + abbreviated(amount)
	case amount.GreaterThan(decimal.NewFromInt(100)):
		return "$" + group(amount.Floor().String())
	default:
		return "$" + groupFixed(amount.RoundFloor(2), 2)
	}
}

func prettifyToken(amount decimal.Decimal, abbreviate bool) string {
	switch {
	case amount.Sign() <= 0:
		return "0"
	case abbreviate && amount.GreaterThan(decimal.NewFromInt(999_999)):
		return abbreviated(amount)
	case amount.GreaterThanOrEqual(decimal.NewFromInt(1000)):
		return group(amount.Floor().String())
	case amount.GreaterThanOrEqual(decimal.NewFromInt(2)):
		return groupOptional(amount.RoundFloor(2))
	case amount.LessThan(decimal.New(1, -6)):
		return "< 0.000001"
	default:
		return amount.RoundFloor(6).String()
	}
}

// abbreviated renderiza con sufijo K/M/B/T y un decimal opcional (floor).
func abbreviated(amount decimal.Decimal) string {
	type unit struct {
		threshold decimal.Decimal
		suffix    string
	}
	units := []unit{
		{decimal.New(1, 12), "T"},
		{decimal.New(1, 9), "B"},
		{decimal.New(1, 6), "M"},
		{decimal.New(1, 3), "K"},
	}
	for _, u := range units {
		if amount.GreaterThanOrEqual(u.threshold) {
			scaled := amount.Div(u.threshold).RoundFloor(1)
			return scaled.String() + u.suffix
		}
	}
	return amount.RoundFloor(1).String()
}

// group inserta separadores de miles en la parte entera de s.
func group(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, fracPart, hasFrac := strings.Cut(s, ".")

	var b strings.Builder
	for i, d := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}

	out := b.String()
	if hasFrac {
		out += "." + fracPart
	}
	if neg {
		out = "-" + out
	}
	return out
}

// groupFixed agrupa miles y fija exactamente places decimales.
func groupFixed(d decimal.Decimal, places int32) string {
	return group(d.StringFixed(places))
}

// groupOptional agrupa miles; los decimales son opcionales (sin ceros al final).
func groupOptional(d decimal.Decimal) string {
	return group(d.String())
}

// FormatDuration renderiza una duración en la forma "Xd Xh Xm Xs",
// omitiendo las unidades superiores que sean cero.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d.Seconds())
	days := total / 86400
	hours := (total % 86400) / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	case hours > 0:
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}

// now es inyectable en tests.
var now = time.Now

// ProgressLevel devuelve la fracción de tiempo transcurrido entre start y
// end (unix seconds), en [0, 1]. Devuelve error si end < start.
func ProgressLevel(start, end int64) (float64, error) {
	if end < start {
		return 0, fmt.Errorf("numeric.ProgressLevel: end %d before start %d", end, start)
	}
	ts := now().Unix()
	if ts >= end {
		return 1, nil
	}
	if ts <= start || end == start {
		return 0, nil
	}
	return float64(ts-start) / float64(end-start), nil
}

// PriceDeviationTooHigh compara el rate promedio contra el spot rate
// (primary/secondary) y devuelve true si el ratio se sale de la banda
// simétrica [(1 − maxDev/1e6), 1e6/(1e6 − maxDev)].
func PriceDeviationTooHigh(averageRate, primaryBalance, secondaryBalance decimal.Decimal, maxDeviationPPM int64) bool {
	if primaryBalance.Sign() <= 0 || secondaryBalance.Sign() <= 0 || averageRate.Sign() <= 0 {
		return true
	}

	maxDev := decimal.NewFromInt(maxDeviationPPM)
	lower := decimal.NewFromInt(1).Sub(maxDev.Div(oneMillion))
	upper := oneMillion.Div(oneMillion.Sub(maxDev))

	spotRate := primaryBalance.Div(secondaryBalance)
	ratio := averageRate.Div(spotRate)

	within := ratio.GreaterThan(lower) && ratio.LessThan(upper)
	return !within
}

// EqualWithinTolerance devuelve true si |a − b| <= tol.
func EqualWithinTolerance(a, b, tol decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(tol)
}

// StakeAPR calcula el APR de un programa: rewardRate × segundos/año sobre
// el amount en stake, ambos en base units del mismo token.
func StakeAPR(rewardRateWei, stakedWei decimal.Decimal) decimal.Decimal {
	if stakedWei.Sign() <= 0 {
		return decimal.Zero
	}
	return rewardRateWei.Mul(secondsPerYear).Div(stakedWei)
}
