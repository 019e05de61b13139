package envelope

// Follower is a single-pole smoother with separate rise and fall rates.
// Attack and Release are per-step coefficients in (0, 1].
type Follower struct {
	Attack  float64
	Release float64
	value   float64
}

func NewFollower(attack, release float64) Follower {
	return Follower{Attack: attack, Release: release}
}

// Step moves the envelope toward x and returns the new value.
func (f *Follower) Step(x float64) float64 {
	if x > f.value {
		f.value += (x - f.value) * f.Attack
	} else {
		f.value += (x - f.value) * f.Release
	}
	return f.value
}

func (f *Follower) Value() float64 { return f.value }

// Set resumes the follower from a stored value.
func (f *Follower) Set(v float64) { f.value = v }

func (f *Follower) Reset() { f.value = 0 }
