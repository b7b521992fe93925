package world

// splitmix64 is the world's deterministic random source. Its full state is
// one uint64 captured by snapshots and the digest, so replays that consume
// randomness in the same order reproduce bit-exact outcomes.
type splitmix64 struct {
	state uint64
}

func newSplitmix64(seed uint64) splitmix64 {
	return splitmix64{state: seed}
}

func (r *splitmix64) next() uint64 {
	r.state += 0x9e3779b97f4a7c15
	z := r.state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// coin returns true with probability 1/2.
func (r *splitmix64) coin() bool {
	return r.next()&1 == 1
}
