package pattern

// Shape is the named classification of a single line through a cell.
type Shape uint8

const (
	None Shape = iota
	DeadFour
	LiveOne
	SleepingTwo
	JumpLiveTwo
	LiveTwo
	SleepingThree
	JumpLiveThree
	LiveThree
	RushFour
	LiveFour
	Five
)

// Base scores per shape. These are tuned together with the composite
// bonuses below; the relative order is what the searches depend on.
const (
	ScoreFive          = 10_000_000
	ScoreLiveFour      = 500_000
	ScoreRushFour      = 50_000
	ScoreLiveThree     = 8_000
	ScoreJumpLiveThree = 7_000
	ScoreSleepingThree = 800
	ScoreLiveTwo       = 300
	ScoreJumpLiveTwo   = 250
	ScoreSleepingTwo   = 30
	ScoreLiveOne       = 20
	ScoreDeadFour      = 10
)

// Composite bonuses, added on top of the summed per-direction scores when
// one move creates several shapes at once.
const (
	BonusDoubleFour  = 450_000
	BonusFourThree   = 100_000
	BonusDoubleThree = 80_000
	BonusTripleTwo   = 4_000
	BonusDoubleTwo   = 2_000
)

// Thresholds used to rank candidate moves by how forcing they are.
const (
	WinningThreshold = ScoreFive
	ForcingThreshold = ScoreLiveFour
	KillerThreshold  = BonusDoubleThree
)

var shapeScores = [...]int{
	None:          0,
	DeadFour:      ScoreDeadFour,
	LiveOne:       ScoreLiveOne,
	SleepingTwo:   ScoreSleepingTwo,
	JumpLiveTwo:   ScoreJumpLiveTwo,
	LiveTwo:       ScoreLiveTwo,
	SleepingThree: ScoreSleepingThree,
	JumpLiveThree: ScoreJumpLiveThree,
	LiveThree:     ScoreLiveThree,
	RushFour:      ScoreRushFour,
	LiveFour:      ScoreLiveFour,
	Five:          ScoreFive,
}

var shapeNames = [...]string{
	None:          "none",
	DeadFour:      "dead-four",
	LiveOne:       "live-one",
	SleepingTwo:   "sleeping-two",
	JumpLiveTwo:   "jump-live-two",
	LiveTwo:       "live-two",
	SleepingThree: "sleeping-three",
	JumpLiveThree: "jump-live-three",
	LiveThree:     "live-three",
	RushFour:      "rush-four",
	LiveFour:      "live-four",
	Five:          "five",
}

func (s Shape) Score() int {
	if int(s) >= len(shapeScores) {
		return 0
	}
	return shapeScores[s]
}

func (s Shape) String() string {
	if int(s) >= len(shapeNames) {
		return "unknown"
	}
	return shapeNames[s]
}

// Tally counts the shapes a single move creates across the four axes.
type Tally struct {
	Fives          int
	LiveFours      int
	RushFours      int
	LiveThrees     int // includes jump live threes
	SleepingThrees int
	LiveTwos       int // includes jump live twos
	Score          int // sum of the per-direction base scores
}

func (t *Tally) Add(s Shape) {
	t.Score += s.Score()
	switch s {
	case Five:
		t.Fives++
	case LiveFour:
		t.LiveFours++
	case RushFour:
		t.RushFours++
	case LiveThree, JumpLiveThree:
		t.LiveThrees++
	case SleepingThree:
		t.SleepingThrees++
	case LiveTwo, JumpLiveTwo:
		t.LiveTwos++
	}
}

// Fours counts both live and rush fours.
func (t Tally) Fours() int {
	return t.LiveFours + t.RushFours
}

// Bonus returns the sum of all composite-shape bonuses that apply.
func (t Tally) Bonus() int {
	bonus := 0
	fours := t.Fours()
	switch {
	case fours >= 2:
		bonus += BonusDoubleFour
	case fours >= 1 && t.LiveThrees >= 1:
		bonus += BonusFourThree
	}
	if t.LiveThrees >= 2 {
		bonus += BonusDoubleThree
	}
	switch {
	case t.LiveTwos >= 3:
		bonus += BonusTripleTwo
	case t.LiveTwos >= 2:
		bonus += BonusDoubleTwo
	}
	return bonus
}

// Total is the base score plus composite bonuses.
func (t Tally) Total() int {
	return t.Score + t.Bonus()
}

// Killer is true for shapes that win by force unless the opponent already
// holds a four: a live four, two fours, two live threes, or a four with a
// live three.
func (t Tally) Killer() bool {
	return t.Fives > 0 || t.LiveFours > 0 || t.RushFours >= 2 ||
		t.LiveThrees >= 2 || (t.RushFours >= 1 && t.LiveThrees >= 1)
}
