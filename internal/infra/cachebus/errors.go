package cachebus

import "errors"

var (
	ErrPublish   = errors.New("cachebus: failed to publish invalidation")
	ErrSubscribe = errors.New("cachebus: failed to subscribe")
	ErrDecode    = errors.New("cachebus: failed to decode message")
)
