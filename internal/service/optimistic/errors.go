package optimistic

import "errors"

var (
	// ErrStationNotFound возвращается, когда станция не найдена
	ErrStationNotFound = errors.New("optimistic: station not found")

	// ErrBusy возвращается, когда все попытки сохранить станцию завершились конфликтом версий
	ErrBusy = errors.New("optimistic: station is busy, retry later")

	// ErrStorageTimeout возвращается, когда хранилище не ответило за отведенное время
	ErrStorageTimeout = errors.New("optimistic: storage timeout")

	// ErrStorage возвращается при прочих ошибках хранилища
	ErrStorage = errors.New("optimistic: storage failure")
)
