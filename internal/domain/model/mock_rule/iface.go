package model

import "time"

type ResponseInfo interface {
	GetStatus() int                // Get response status code
	GetHeaders() map[string]string // Get response headers
	GetBody() []byte               // Get response body as raw bytes
	GetDelay() time.Duration       // Get configured response delay
}
