package release_slot

import "errors"

var (
	// ErrStationNotFound возвращается, когда станция не найдена
	ErrStationNotFound = errors.New("release_slot: station not found")

	// ErrPointNotFound возвращается, когда на станции нет точки с таким номером
	ErrPointNotFound = errors.New("release_slot: charging point not found")

	// ErrSlotNotFound возвращается, когда нет занятого слота, подходящего под запрос
	ErrSlotNotFound = errors.New("release_slot: booked slot not found")

	// ErrInvalidRange возвращается при некорректной метке или интервале
	ErrInvalidRange = errors.New("release_slot: invalid time range")

	// ErrBusy возвращается, когда станция изменялась конкурентно и попытки исчерпаны
	ErrBusy = errors.New("release_slot: station is busy")

	// ErrStorageTimeout возвращается, когда хранилище не ответило вовремя
	ErrStorageTimeout = errors.New("release_slot: storage timeout")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("release_slot: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("release_slot: internal error")
)
