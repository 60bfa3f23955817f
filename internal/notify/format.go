package notify

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/message"
)

// FormatMoney renders minor units locale-aware for the resolved language.
// Unknown currency codes degrade to "CODE 12.34".
func FormatMoney(lang Language, code string, cents int64) string {
	major := decimal.NewFromInt(cents).Div(decimal.NewFromInt(100))

	unit, err := currency.ParseISO(code)
	if err != nil {
		if code == "" {
			return major.StringFixed(2)
		}
		return fmt.Sprintf("%s %s", code, major.StringFixed(2))
	}

	f, _ := major.Float64()
	p := message.NewPrinter(lang.Tag())
	return p.Sprint(currency.Symbol(unit.Amount(f)))
}

// Month name tables for languages where a localized long date is rendered.
// Languages without a table degrade to an ISO date.
var monthNames = map[Language][12]string{
	LangEN:   {"January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"},
	LangDE:   {"Januar", "Februar", "März", "April", "Mai", "Juni", "Juli", "August", "September", "Oktober", "November", "Dezember"},
	LangFR:   {"janvier", "février", "mars", "avril", "mai", "juin", "juillet", "août", "septembre", "octobre", "novembre", "décembre"},
	LangES:   {"enero", "febrero", "marzo", "abril", "mayo", "junio", "julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"},
	LangIT:   {"gennaio", "febbraio", "marzo", "aprile", "maggio", "giugno", "luglio", "agosto", "settembre", "ottobre", "novembre", "dicembre"},
	LangNL:   {"januari", "februari", "maart", "april", "mei", "juni", "juli", "augustus", "september", "oktober", "november", "december"},
	LangPTPT: {"janeiro", "fevereiro", "março", "abril", "maio", "junho", "julho", "agosto", "setembro", "outubro", "novembro", "dezembro"},
}

// FormatDate renders a long-form date in the resolved language.
func FormatDate(lang Language, t time.Time) string {
	names, ok := monthNames[lang]
	if !ok {
		return t.Format("2006-01-02")
	}
	month := names[t.Month()-1]
	switch lang {
	case LangEN:
		return fmt.Sprintf("%s %d, %d", month, t.Day(), t.Year())
	case LangDE:
		return fmt.Sprintf("%d. %s %d", t.Day(), month, t.Year())
	default:
		return fmt.Sprintf("%d %s %d", t.Day(), month, t.Year())
	}
}
