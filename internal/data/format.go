package data

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const dateTimeLayout = "02.01.2006 15:04:05"

var dateLocation = time.UTC

// SetDateLocation sets the time zone used by FormatDateTime
func SetDateLocation(loc *time.Location) {
	if loc != nil {
		dateLocation = loc
	}
}

// DateLocation returns the time zone used by FormatDateTime
func DateLocation() *time.Location {
	return dateLocation
}

type integer interface {
	~int | ~int32 | ~int64
}

// NumberToString formats an integer in base 10
func NumberToString[T integer](value T) string {
	return strconv.FormatInt(int64(value), 10)
}

// PaddedNumber formats value with leading zeros up to digits characters
func PaddedNumber(value, digits int) string {
	return fmt.Sprintf("%0*d", digits, value)
}

// FloatToString formats a coordinate with up to six decimals, trailing zeros dropped
func FloatToString(value float64) string {
	result := strconv.FormatFloat(value, 'f', 6, 64)
	result = strings.TrimRight(result, "0")
	return strings.TrimSuffix(result, ".")
}

// FormatRating formats a top peer rating with six significant digits
func FormatRating(rating float64) string {
	return strconv.FormatFloat(rating, 'g', 6, 64)
}

// FormatDateTime formats a timestamp as "dd.MM.yyyy hh:mm:ss".
// A zero timestamp yields an empty string.
func FormatDateTime(date TimeID) string {
	if date == 0 {
		return ""
	}
	return time.Unix(int64(date), 0).In(dateLocation).Format(dateTimeLayout)
}

// FormatPhoneNumber normalizes a phone number to "+<digits>"
func FormatPhoneNumber(phone string) string {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return phone
	}
	return "+" + digits.String()
}

// FormatUsername prefixes a non-empty username with "@"
func FormatUsername(username string) string {
	if username == "" {
		return ""
	}
	return "@" + username
}

// currencyExponents lists ISO 4217 currencies whose minor unit is not 1/100
var currencyExponents = map[string]int{
	"BIF": 0, "CLP": 0, "DJF": 0, "GNF": 0, "ISK": 0, "JPY": 0, "KMF": 0,
	"KRW": 0, "PYG": 0, "RWF": 0, "UGX": 0, "VND": 0, "VUV": 0, "XAF": 0,
	"XOF": 0, "XPF": 0,
	"BHD": 3, "IQD": 3, "JOD": 3, "KWD": 3, "LYD": 3, "OMR": 3, "TND": 3,
}

// FormatMoneyAmount formats an amount given in minor units, e.g. 1250 "USD" -> "12.50 USD"
func FormatMoneyAmount(amount uint64, currency string) string {
	currency = strings.ToUpper(currency)
	exponent, ok := currencyExponents[currency]
	if !ok {
		exponent = 2
	}

	var value string
	if exponent == 0 {
		value = strconv.FormatUint(amount, 10)
	} else {
		divider := uint64(1)
		for i := 0; i < exponent; i++ {
			divider *= 10
		}
		value = fmt.Sprintf("%d.%0*d", amount/divider, exponent, amount%divider)
	}

	if currency == "" {
		return value
	}
	return value + " " + currency
}

// SortedContactsIndices returns indices of data.List ordered by lower-cased
// full name. Contacts with equal names keep their original order.
func SortedContactsIndices(data ContactsList) []int {
	names := make([]string, len(data.List))
	for i, contact := range data.List {
		names[i] = strings.ToLower(contact.FirstName + " " + contact.LastName)
	}

	indices := make([]int, len(data.List))
	for i := range indices {
		indices[i] = i
	}

	collator := collate.New(language.Und)
	sort.SliceStable(indices, func(a, b int) bool {
		return collator.CompareString(names[indices[a]], names[indices[b]]) < 0
	})
	return indices
}
