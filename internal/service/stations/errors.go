package stations

import "errors"

var (
	// ErrStationNotFound возвращается, когда станция не найдена
	ErrStationNotFound = errors.New("stations: station not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("stations: invalid input data")

	// ErrStorageTimeout возвращается, когда хранилище не ответило вовремя
	ErrStorageTimeout = errors.New("stations: storage timeout")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("stations: internal error")
)
