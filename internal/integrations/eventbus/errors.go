package eventbus

import "errors"

var (
	// ErrConnect возвращается, если не удалось подключиться к брокеру
	ErrConnect = errors.New("eventbus: failed to connect to broker")

	// ErrEncode возвращается при ошибке сериализации события
	ErrEncode = errors.New("eventbus: failed to encode event")

	// ErrPublish возвращается при ошибке публикации
	ErrPublish = errors.New("eventbus: failed to publish event")
)
