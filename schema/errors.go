package schema

import "errors"

var (
	// ErrImageFetch indicates an emote image could not be downloaded.
	ErrImageFetch = errors.New("emote image fetch failed")
	// ErrImageDecode indicates an emote image payload was malformed.
	ErrImageDecode = errors.New("emote image decode failed")
	// ErrUnknownEmote indicates an emote code is absent from the catalog.
	ErrUnknownEmote = errors.New("unknown emote code")
	// ErrEmptyPattern indicates a notification carried no pattern to locate.
	ErrEmptyPattern = errors.New("empty pattern")
	// ErrInvalidNotification indicates a malformed bot notification.
	ErrInvalidNotification = errors.New("invalid bot notification")
	// ErrInvalidHostMessage indicates a malformed host protocol message.
	ErrInvalidHostMessage = errors.New("invalid host message")
)
