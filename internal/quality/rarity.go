package quality

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
)

//go:embed data/rarity_table.json
var rarityTableData []byte

type rarityEntry struct {
	Note  string  `json:"note"`
	Sign  string  `json:"sign"`
	Bonus float64 `json:"bonus"`
}

var rarityTable map[string]float64

func init() {
	var entries []rarityEntry
	if err := json.Unmarshal(rarityTableData, &entries); err != nil {
		panic(fmt.Sprintf("quality: failed to load rarity table: %v", err))
	}
	rarityTable = make(map[string]float64, len(entries))
	for _, e := range entries {
		rarityTable[rarityKey(e.Note, e.Sign)] = e.Bonus
	}
}

func rarityKey(note, sign string) string {
	return strings.ToUpper(note) + "|" + strings.ToLower(sign)
}

// RarityBonus looks up the fixed Note×Sign rarity table, loaded from the
// embedded data/rarity_table.json (no content hash of the file is
// computed or checked). Unknown pairs return 0.
func RarityBonus(note, sign string) float64 {
	return rarityTable[rarityKey(note, sign)]
}
