package service

// maskMinLength es el largo a partir del cual una dirección se enmascara.
// Por debajo de eso el resultado sería ambiguo, así que se devuelve intacta.
const maskMinLength = 12

// MaskAddress devuelve una forma abreviada de una dirección de wallet para
// mostrar en público: primeros 6 caracteres + "..." + últimos 4. El tramo
// central se descarta de forma irreversible. Función pura y determinista.
func MaskAddress(address string) string {
	runes := []rune(address)
	if len(runes) <= maskMinLength {
		return address
	}
	return string(runes[:6]) + "..." + string(runes[len(runes)-4:])
}
