package botlink

type peerCred struct {
	PID int32
	UID uint32
}
