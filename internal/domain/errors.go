package domain

import "errors"

var (
	// ErrLocationNotFound - геокодер не нашёл пригодного совпадения
	ErrLocationNotFound = errors.New("location not found")

	// ErrUpstreamUnavailable - внешний сервис недоступен, вернул ошибку или не уложился в таймаут
	ErrUpstreamUnavailable = errors.New("upstream service unavailable")
)
