package reset_slots

import "errors"

var (
	// ErrAlreadyRunning возвращается, когда сброс уже выполняется (в этом процессе или на другой реплике)
	ErrAlreadyRunning = errors.New("reset_slots: reset is already running")

	// ErrStorageTimeout возвращается, когда хранилище не вернуло список станций вовремя
	ErrStorageTimeout = errors.New("reset_slots: storage timeout")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reset_slots: internal error")
)
