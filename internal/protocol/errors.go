package protocol

const (
	// Protocol/transport validation.
	ErrProtoBadRequest = "E_PROTO_BAD_REQUEST"
	ErrProtoVersion    = "E_PROTO_VERSION"

	// Episode lifecycle.
	ErrEpisodeDone    = "E_EPISODE_DONE"
	ErrEpisodeFailed  = "E_EPISODE_FAILED"
	ErrInvalidAction  = "E_INVALID_ACTION"
	ErrUnknownProfile = "E_UNKNOWN_PROFILE"

	ErrInternal = "E_INTERNAL"
)

var knownCodes = map[string]struct{}{
	ErrProtoBadRequest: {},
	ErrProtoVersion:    {},
	ErrEpisodeDone:     {},
	ErrEpisodeFailed:   {},
	ErrInvalidAction:   {},
	ErrUnknownProfile:  {},
	ErrInternal:        {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}
