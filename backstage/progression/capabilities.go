package progression

// CapabilitySet is a pure function of level, computed on read. Storing
// these as independent mutable fields lets them drift out of sync with
// level, so they are never persisted.
type CapabilitySet struct {
	CanCustomizeStyle     bool
	CanSetPhilosophy      bool
	CanUploadImages       bool
	CanHardcodeParameters bool
}

// Capabilities returns the capability flags unlocked at the given level.
func Capabilities(level Level) CapabilitySet {
	return CapabilitySet{
		CanCustomizeStyle:     level >= LevelArtist,
		CanSetPhilosophy:      level >= LevelProducer,
		CanUploadImages:       level >= LevelARAndR,
		CanHardcodeParameters: level >= LevelLabelExecutive,
	}
}
