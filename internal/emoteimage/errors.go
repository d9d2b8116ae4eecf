package emoteimage

import (
	"fmt"

	"pkt.systems/emoteoverlay/schema"
)

// FetchError reports a transport failure or a non-2xx response.
type FetchError struct {
	ImageID string
	URL     string
	Status  int
	Err     error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch emote %s: %s: status %d", e.ImageID, e.URL, e.Status)
	}
	if e.Err != nil {
		return fmt.Sprintf("fetch emote %s: %s: %v", e.ImageID, e.URL, e.Err)
	}
	return fmt.Sprintf("fetch emote %s: %s", e.ImageID, e.URL)
}

func (e *FetchError) Unwrap() []error {
	if e.Err == nil {
		return []error{schema.ErrImageFetch}
	}
	return []error{schema.ErrImageFetch, e.Err}
}

// DecodeError reports a payload that is not a valid PNG.
type DecodeError struct {
	ImageID string
	Err     error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode emote %s: %v", e.ImageID, e.Err)
}

func (e *DecodeError) Unwrap() []error {
	if e.Err == nil {
		return []error{schema.ErrImageDecode}
	}
	return []error{schema.ErrImageDecode, e.Err}
}
