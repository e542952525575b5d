// Package fibonacci implements the pure Fibonacci Pattern Engine (C9):
// a seed -> {sequence, zodiac position, musical key, harmony ratio}
// mapping used by the Poetic Composer's musical note, the Quality
// Evaluator's complexity score, and the Evolutionary Decision
// Generator's signature.
package fibonacci

import (
	"math"
	"sync"
)

// MusicalKeys is the fixed 12-entry solfège key table, DO..SI, indexed by
// zodiac position mod 12.
var MusicalKeys = []string{"DO", "RE", "MI", "FA", "SOL", "LA", "SI", "DO", "RE", "MI", "FA", "SOL"}

const goldenRatio = 1.618033988749895

// Pattern is the output of Generate: a Fibonacci sequence bounded by the
// seed, plus the derived zodiac position, musical key, and golden-ratio
// harmony scalar.
type Pattern struct {
	Sequence     []int
	ZodiacPos    int
	MusicalKey   string
	HarmonyRatio float64
}

var (
	mu              sync.Mutex
	sequenceByLimit = map[int][]int{}
	harmonyBySeqKey = map[string]float64{}
)

// sequenceUpTo returns the Fibonacci sequence with all terms <= limit,
// starting 1,1,2,3,.... Cached content-keyed by limit, never time-keyed.
func sequenceUpTo(limit int) []int {
	mu.Lock()
	if cached, ok := sequenceByLimit[limit]; ok {
		mu.Unlock()
		out := make([]int, len(cached))
		copy(out, cached)
		return out
	}
	mu.Unlock()

	seq := []int{1, 1}
	for {
		next := seq[len(seq)-1] + seq[len(seq)-2]
		if next > limit {
			break
		}
		seq = append(seq, next)
	}

	mu.Lock()
	stored := make([]int, len(seq))
	copy(stored, seq)
	sequenceByLimit[limit] = stored
	mu.Unlock()

	return seq
}

// seqCacheKey builds a stable string key from a sequence's content, for
// the harmony-ratio cache.
func seqCacheKey(seq []int) string {
	key := make([]byte, 0, len(seq)*4)
	for _, v := range seq {
		n := v
		if n == 0 {
			key = append(key, '0', ',')
			continue
		}
		var buf [20]byte
		i := len(buf)
		neg := n < 0
		if neg {
			n = -n
		}
		for n > 0 {
			i--
			buf[i] = byte('0' + n%10)
			n /= 10
		}
		if neg {
			i--
			buf[i] = '-'
		}
		key = append(key, buf[i:]...)
		key = append(key, ',')
	}
	return string(key)
}

// harmonyRatio measures the mean closeness of consecutive-term ratios to
// the golden ratio, mapped to [0,1] where 1 is a perfect match.
func harmonyRatio(seq []int) float64 {
	if len(seq) < 3 {
		return 0
	}
	cacheKey := seqCacheKey(seq)

	mu.Lock()
	if cached, ok := harmonyBySeqKey[cacheKey]; ok {
		mu.Unlock()
		return cached
	}
	mu.Unlock()

	var total float64
	count := 0
	for i := 1; i < len(seq); i++ {
		if seq[i-1] == 0 {
			continue
		}
		ratio := float64(seq[i]) / float64(seq[i-1])
		diff := math.Abs(ratio - goldenRatio)
		closeness := 1 - math.Min(diff, 1)
		total += closeness
		count++
	}
	if count == 0 {
		return 0
	}
	result := total / float64(count)

	mu.Lock()
	harmonyBySeqKey[cacheKey] = result
	mu.Unlock()

	return result
}

// Generate is the C9 contract: pure, bit-identical for the same seed
// across runs and processes.
func Generate(seed uint32) Pattern {
	limit := 50 + int(seed%500)
	seq := sequenceUpTo(limit)

	zodiacPos := int(seed % 12)
	key := MusicalKeys[zodiacPos%len(MusicalKeys)]
	ratio := harmonyRatio(seq)

	return Pattern{
		Sequence:     seq,
		ZodiacPos:    zodiacPos,
		MusicalKey:   key,
		HarmonyRatio: ratio,
	}
}
