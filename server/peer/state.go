package peer

// Running --(write ok)--> Running, Running --(write failed)--> Closed
type ConnState int32

const (
	StateRunning ConnState = iota
	StateClosed
)

var stateName = map[ConnState]string{
	StateRunning: "running",
	StateClosed:  "closed",
}

func (s ConnState) String() string {
	return stateName[s]
}
