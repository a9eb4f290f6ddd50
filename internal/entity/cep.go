package entity

import "regexp"

var (
	cepPattern = regexp.MustCompile(`^[0-9]{5}-?[0-9]{3}$`)
	nonDigits  = regexp.MustCompile(`\D`)
)

// VerifyCEP aceita "NNNNN-NNN" ou "NNNNNNNN". Nada é limpo antes do match.
func VerifyCEP(cep string) bool {
	return cepPattern.MatchString(cep)
}

// NormalizeCEP remove tudo que não é dígito. Não valida tamanho.
func NormalizeCEP(cep string) string {
	return nonDigits.ReplaceAllString(cep, "")
}

// MaskCEP reinsere o hífen quando há exatamente 8 dígitos.
func MaskCEP(digits string) string {
	if len(digits) != 8 {
		return digits
	}
	return digits[:5] + "-" + digits[5:]
}
