package engine

// Stage is the display tier of the player's tree, derived from lifetime points.
type Stage string

const (
	StageSprout Stage = "sprout"
	StageFlower Stage = "flower"
	StageFruit  Stage = "fruit"
	StageTree   Stage = "tree"
)

const (
	FlowerThreshold = 500
	FruitThreshold  = 1500
	TreeThreshold   = 3000
)

var stageOrder = []struct {
	stage Stage
	min   int
}{
	{StageSprout, 0},
	{StageFlower, FlowerThreshold},
	{StageFruit, FruitThreshold},
	{StageTree, TreeThreshold},
}

// StageForPoints returns the highest stage whose threshold lifetimePoints reaches.
func StageForPoints(lifetimePoints int) Stage {
	switch {
	case lifetimePoints >= TreeThreshold:
		return StageTree
	case lifetimePoints >= FruitThreshold:
		return StageFruit
	case lifetimePoints >= FlowerThreshold:
		return StageFlower
	default:
		return StageSprout
	}
}

// Rank returns the tier index of s (0 for sprout). Unknown labels rank 0.
func (s Stage) Rank() int {
	for i, st := range stageOrder {
		if st.stage == s {
			return i
		}
	}
	return 0
}

func (s Stage) IsValid() bool {
	switch s {
	case StageSprout, StageFlower, StageFruit, StageTree:
		return true
	default:
		return false
	}
}

// NextStageThreshold returns the next stage and the lifetime points it requires.
// ok is false once the top stage is reached.
func NextStageThreshold(lifetimePoints int) (next Stage, required int, ok bool) {
	cur := StageForPoints(lifetimePoints).Rank()
	if cur+1 >= len(stageOrder) {
		return "", 0, false
	}
	n := stageOrder[cur+1]
	return n.stage, n.min, true
}

// StageThreshold returns the lifetime points at which s begins.
func StageThreshold(s Stage) int {
	return stageOrder[s.Rank()].min
}
