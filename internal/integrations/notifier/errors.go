package notifier

import "errors"

var (
	ErrEncodeEvent  = errors.New("notifier: failed to encode event")
	ErrPublishEvent = errors.New("notifier: failed to publish event")
)
