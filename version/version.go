package version

const (
	// TMVersionDefault is the used as the fallback version of Tendermint
	// when not using git describe. It is formatted with semantic versioning.
	TMVersionDefault = "0.34.0"
)

var (
	// TMVersion is the semantic version of this module. It is overwritten
	// with ldflags at build time.
	TMVersion = TMVersionDefault
)

const (
	// BlockProtocol versions all block data structures and processing.
	// This includes validity of blocks and state updates.
	BlockProtocol uint64 = 11
)

// Consensus captures the consensus rules for processing a block in the
// blockchain, including all blockchain data structures and the rules of the
// application's state transition machine.
type Consensus struct {
	Block uint64 `json:"block,string"`
	App   uint64 `json:"app,string"`
}
