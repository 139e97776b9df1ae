package prep

// FullyRemote is the remote ratio that marks a fully remote position.
const FullyRemote = 100

// SizeScale maps company size codes to an ordinal score.
type SizeScale map[string]int

// DefaultSizeScale scores small, medium and large companies.
var DefaultSizeScale = SizeScale{"S": 1, "M": 2, "L": 3}

// Score returns the score for code, 0 when the code is not mapped.
func (s SizeScale) Score(code string) int {
	return s[code]
}

// CompanySizeScore scores code with DefaultSizeScale.
func CompanySizeScore(code string) int {
	return DefaultSizeScale.Score(code)
}

// RemoteIndicator reports whether remoteRatio equals threshold.
func RemoteIndicator(remoteRatio, threshold int) bool {
	return remoteRatio == threshold
}

// RemoteWorkIndicator reports whether the position is fully remote.
func RemoteWorkIndicator(remoteRatio int) bool {
	return RemoteIndicator(remoteRatio, FullyRemote)
}
