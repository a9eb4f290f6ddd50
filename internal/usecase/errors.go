package usecase

import "errors"

type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

type TechnicalError struct {
	Code    string
	Message string
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

var (
	// ErrZipCodeNotFound: nenhum provedor devolveu endereço.
	ErrZipCodeNotFound = &DomainError{Code: "ZIP_CODE_NOT_FOUND", Message: "Zip code not found."}

	ErrInvalidZipCode = &DomainError{Code: "INVALID_ZIP_CODE", Message: "Invalid zip code."}
)

func IsZipCodeNotFound(err error) bool {
	return hasCode(err, ErrZipCodeNotFound.Code)
}

func IsInvalidZipCode(err error) bool {
	return hasCode(err, ErrInvalidZipCode.Code)
}

func hasCode(err error, code string) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Code == code
}
