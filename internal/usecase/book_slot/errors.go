package book_slot

import "errors"

var (
	// ErrStationNotFound возвращается, когда станция не найдена
	ErrStationNotFound = errors.New("book_slot: station not found")

	// ErrPointNotFound возвращается, когда на станции нет точки с таким номером
	ErrPointNotFound = errors.New("book_slot: charging point not found")

	// ErrUserNotFound возвращается, когда пользователь не найден в UserService
	ErrUserNotFound = errors.New("book_slot: user not found")

	// ErrInvalidRange возвращается при некорректном интервале (пустой, в прошлом, вне сетки)
	ErrInvalidRange = errors.New("book_slot: invalid time range")

	// ErrSlotConflict возвращается, когда интервал пересекается с занятым слотом
	ErrSlotConflict = errors.New("book_slot: slot conflict")

	// ErrBusy возвращается, когда станция изменялась конкурентно и попытки исчерпаны
	ErrBusy = errors.New("book_slot: station is busy")

	// ErrStorageTimeout возвращается, когда хранилище не ответило вовремя
	ErrStorageTimeout = errors.New("book_slot: storage timeout")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("book_slot: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("book_slot: internal error")
)
