package types

import "github.com/OffchainLabs/go-bitfield"

//go:generate go run github.com/ferranbt/fastssz/sszgen --path=. --objs=Checkpoint,Fork,BeaconBlockHeader,AttestationData,Attestation,BeaconBlockBody,BeaconBlock,SignedBeaconBlock,Validator,BeaconState

// Checkpoint is an (epoch, root) pair. The root is the hash-tree-root of the
// block in effect at the epoch's start slot.
type Checkpoint struct {
	Epoch Epoch
	Root  Root `ssz-size:"32"`
}

// Fork carries the fork metadata in force for a state.
type Fork struct {
	PreviousVersion Version `ssz-size:"4"`
	CurrentVersion  Version `ssz-size:"4"`
	Epoch           Epoch
}

// BeaconBlockHeader is a block with the body replaced by its root.
type BeaconBlockHeader struct {
	Slot          Slot
	ProposerIndex ValidatorIndex
	ParentRoot    Root `ssz-size:"32"`
	StateRoot     Root `ssz-size:"32"`
	BodyRoot      Root `ssz-size:"32"`
}

// AttestationData is the vote carried by an attestation.
type AttestationData struct {
	Slot            Slot
	Index           CommitteeIndex
	BeaconBlockRoot Root `ssz-size:"32"`
	Source          Checkpoint
	Target          Checkpoint
}

// Attestation is a signed vote by a set of validators. The attesting indices
// are carried explicitly; signature aggregation is out of scope here.
type Attestation struct {
	AttestingIndices []uint64 `ssz-max:"2048"`
	Data             AttestationData
	Signature        Signature `ssz-size:"96"`
}

// BeaconBlockBody holds the operations included in a block.
type BeaconBlockBody struct {
	RandaoReveal Signature `ssz-size:"96"`
	Graffiti     Root      `ssz-size:"32"`
	Attestations []*Attestation `ssz-max:"128"`
}

// BeaconBlock identity is its hash-tree-root.
type BeaconBlock struct {
	Slot          Slot
	ProposerIndex ValidatorIndex
	ParentRoot    Root `ssz-size:"32"`
	StateRoot     Root `ssz-size:"32"`
	Body          *BeaconBlockBody
}

// SignedBeaconBlock is the wire and storage envelope for blocks.
type SignedBeaconBlock struct {
	Message   *BeaconBlock
	Signature Signature `ssz-size:"96"`
}

// Validator is a registry entry.
type Validator struct {
	Pubkey           [48]byte `ssz-size:"48"`
	EffectiveBalance Gwei
	Slashed          bool
	ActivationEpoch  Epoch
	ExitEpoch        Epoch
}

// BeaconState is the full consensus state at a slot.
type BeaconState struct {
	GenesisTime           uint64
	GenesisValidatorsRoot Root `ssz-size:"32"`
	Slot                  Slot
	Fork                  Fork

	LatestBlockHeader BeaconBlockHeader
	BlockRoots        []Root `ssz-size:"64,32"`
	StateRoots        []Root `ssz-size:"64,32"`

	Validators []*Validator `ssz-max:"4096"`
	Balances   []uint64     `ssz-max:"4096"`

	RandaoMixes []Root   `ssz-size:"64,32"`
	Slashings   []uint64 `ssz-size:"64"`

	PreviousEpochAttestations []*Attestation `ssz-max:"4096"`
	CurrentEpochAttestations  []*Attestation `ssz-max:"4096"`

	JustificationBits           bitfield.Bitvector4 `ssz-size:"1"`
	PreviousJustifiedCheckpoint Checkpoint
	CurrentJustifiedCheckpoint  Checkpoint
	FinalizedCheckpoint         Checkpoint
}

// Vote is a validator's latest recorded attestation target, updated
// monotonically by target epoch.
type Vote struct {
	TargetRoot  Root
	TargetEpoch Epoch
}

// Copy returns a deep copy of the state.
func (b *BeaconState) Copy() *BeaconState {
	cp := *b
	cp.BlockRoots = append([]Root(nil), b.BlockRoots...)
	cp.StateRoots = append([]Root(nil), b.StateRoots...)
	cp.Validators = make([]*Validator, len(b.Validators))
	for i, v := range b.Validators {
		vc := *v
		cp.Validators[i] = &vc
	}
	cp.Balances = append([]uint64(nil), b.Balances...)
	cp.RandaoMixes = append([]Root(nil), b.RandaoMixes...)
	cp.Slashings = append([]uint64(nil), b.Slashings...)
	cp.PreviousEpochAttestations = append([]*Attestation(nil), b.PreviousEpochAttestations...)
	cp.CurrentEpochAttestations = append([]*Attestation(nil), b.CurrentEpochAttestations...)
	cp.JustificationBits = append(bitfield.Bitvector4(nil), b.JustificationBits...)
	return &cp
}

// Root returns the block's hash-tree-root, panicking on hasher failure.
// Hashing a well-formed block cannot fail; malformed blocks are rejected
// at decode time.
func (b *BeaconBlock) Root() Root {
	r, err := b.HashTreeRoot()
	if err != nil {
		panic(err)
	}
	return r
}
