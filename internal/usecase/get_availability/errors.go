package get_availability

import "errors"

var (
	// ErrStationNotFound возвращается, когда станция не найдена
	ErrStationNotFound = errors.New("get_availability: station not found")

	// ErrPointNotFound возвращается, когда на станции нет точки с таким номером
	ErrPointNotFound = errors.New("get_availability: charging point not found")

	// ErrStorageTimeout возвращается, когда хранилище не ответило вовремя
	ErrStorageTimeout = errors.New("get_availability: storage timeout")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_availability: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_availability: internal error")
)
