package scanner

// Stack sub-score weights; they sum to 1.
const (
	weightLanguage       = 0.4
	weightFramework      = 0.3
	weightTestFramework  = 0.2
	weightPackageManager = 0.1
)

// Pattern sub-score weights; they sum to 1.
const (
	weightStructure = 0.5
	weightKeyDirs   = 0.3
	weightNaming    = 0.2
)

// ScoreConfidence scores the primary stack and the detected patterns. Each
// sub-score is a fixed weighted sum of known fields and overall is their
// mean, so every value lies in [0,1].
func ScoreConfidence(stack TechStack, patterns CodePatterns) Confidence {
	var s float64
	primary := stack.Primary
	if primary.Language != LanguageUnknown && primary.Language != "" {
		s += weightLanguage
	}
	if primary.Framework != FrameworkUnknown && primary.Framework != "" {
		s += weightFramework
	}
	if primary.TestFramework != TestFrameworkUnknown && primary.TestFramework != "" {
		s += weightTestFramework
	}
	if primary.PackageManager != PackageManagerUnknown && primary.PackageManager != "" {
		s += weightPackageManager
	}

	var p float64
	if patterns.Structure.Type != StructureUnknown && patterns.Structure.Type != "" {
		p += weightStructure
	}
	if len(patterns.Structure.KeyDirectories) > 0 {
		p += weightKeyDirs
	}
	if patterns.Naming.Files != NamingMixed && patterns.Naming.Files != "" {
		p += weightNaming
	}

	return Confidence{
		Stack:    round2(s),
		Patterns: round2(p),
		Overall:  round2((s + p) / 2),
	}
}

// round2 trims float noise from the weighted sums (0.30000000000000004).
func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
