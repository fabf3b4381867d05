package engine

// ItemUnlockStages maps shop items to the stage required to buy them.
// Items not listed are always available.
var ItemUnlockStages = map[string]Stage{
	"birdhouse": StageFlower,
	"bench":     StageFruit,
	"pond":      StageFruit,
	"rainbow":   StageTree,
}

// CanBuyItem returns a GateError if stage is too low for itemID.
func CanBuyItem(stage Stage, itemID string) error {
	req, ok := ItemUnlockStages[itemID]
	if !ok {
		return nil
	}
	if stage.Rank() < req.Rank() {
		return GateError{Item: itemID, RequiredStage: req}
	}
	return nil
}
