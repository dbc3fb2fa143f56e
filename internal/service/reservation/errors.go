package reservation

import "errors"

var (
	// ErrInvalidRange возвращается при некорректном или прошедшем интервале
	ErrInvalidRange = errors.New("reservation: invalid time range")

	// ErrInvalidInput возвращается при некорректных входных данных (пустой пользователь, селектор)
	ErrInvalidInput = errors.New("reservation: invalid input")

	// ErrPointNotFound возвращается, когда на станции нет точки с таким номером
	ErrPointNotFound = errors.New("reservation: charging point not found")

	// ErrSlotConflict возвращается, когда интервал пересекается с занятым слотом
	ErrSlotConflict = errors.New("reservation: slot conflict")

	// ErrSlotNotFound возвращается, когда нет занятого слота для освобождения
	ErrSlotNotFound = errors.New("reservation: booked slot not found")
)
