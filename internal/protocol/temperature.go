package protocol

import "fmt"

// TempEncoding selects how raw 16-bit temperature words map to °C.
// Firmware variants disagree, so there is deliberately no default.
type TempEncoding string

const (
	// EncodingCelsius treats the raw word as whole degrees Celsius.
	EncodingCelsius TempEncoding = "celsius"
	// EncodingFahrenheitTenths treats the raw word as tenths of a degree Fahrenheit.
	EncodingFahrenheitTenths TempEncoding = "fahrenheit_tenths"
)

// ParseTempEncoding validates a configured encoding name.
func ParseTempEncoding(s string) (TempEncoding, error) {
	switch e := TempEncoding(s); e {
	case EncodingCelsius, EncodingFahrenheitTenths:
		return e, nil
	case "":
		return "", fmt.Errorf("temperature encoding not set; choose %q or %q", EncodingCelsius, EncodingFahrenheitTenths)
	default:
		return "", fmt.Errorf("unknown temperature encoding %q", s)
	}
}

// ToCelsius converts a raw temperature word.
func (e TempEncoding) ToCelsius(raw uint16) (float64, error) {
	switch e {
	case EncodingCelsius:
		return float64(raw), nil
	case EncodingFahrenheitTenths:
		return (float64(raw)/10 - 32) * 5 / 9, nil
	default:
		return 0, fmt.Errorf("unknown temperature encoding %q", string(e))
	}
}
