package chain

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"github.com/OffchainLabs/go-bitfield"
	ssz "github.com/ferranbt/fastssz"

	"github.com/geanlabs/beacon/types"
)

// GenerateGenesis builds the genesis state and block for a registry of the
// given size. Pubkeys are derived deterministically from the index
// (index+1, little-endian, in the first eight bytes).
func GenerateGenesis(genesisTime uint64, validatorCount uint64, forkVersion types.Version) (*types.BeaconState, *types.SignedBeaconBlock, error) {
	validators := make([]*types.Validator, validatorCount)
	balances := make([]uint64, validatorCount)
	for i := uint64(0); i < validatorCount; i++ {
		var pubkey [48]byte
		binary.LittleEndian.PutUint64(pubkey[:8], i+1)
		validators[i] = &types.Validator{
			Pubkey:           pubkey,
			EffectiveBalance: types.MaxEffectiveBalance,
			ActivationEpoch:  types.GenesisEpoch,
			ExitEpoch:        types.FarFutureEpoch,
		}
		balances[i] = uint64(types.MaxEffectiveBalance)
	}

	genesisValidatorsRoot, err := validatorRegistryRoot(validators)
	if err != nil {
		return nil, nil, fmt.Errorf("hash genesis registry: %w", err)
	}

	emptyBody := &types.BeaconBlockBody{}
	bodyRoot, err := emptyBody.HashTreeRoot()
	if err != nil {
		return nil, nil, fmt.Errorf("hash empty body: %w", err)
	}

	state := &types.BeaconState{
		GenesisTime:           genesisTime,
		GenesisValidatorsRoot: genesisValidatorsRoot,
		Slot:                  types.GenesisSlot,
		Fork: types.Fork{
			PreviousVersion: forkVersion,
			CurrentVersion:  forkVersion,
			Epoch:           types.GenesisEpoch,
		},
		LatestBlockHeader: types.BeaconBlockHeader{BodyRoot: bodyRoot},
		BlockRoots:        make([]types.Root, types.SlotsPerHistoricalRoot),
		StateRoots:        make([]types.Root, types.SlotsPerHistoricalRoot),
		Validators:        validators,
		Balances:          balances,
		RandaoMixes:       make([]types.Root, types.EpochsPerHistoricalVector),
		Slashings:         make([]uint64, types.EpochsPerHistoricalVector),
		JustificationBits: bitfield.NewBitvector4(),
	}

	stateRoot, err := state.HashTreeRoot()
	if err != nil {
		return nil, nil, fmt.Errorf("hash genesis state: %w", err)
	}

	block := &types.SignedBeaconBlock{
		Message: &types.BeaconBlock{
			Slot:      types.GenesisSlot,
			StateRoot: stateRoot,
			Body:      emptyBody,
		},
	}
	return state, block, nil
}

// validatorRegistryRoot computes the hash-tree-root of the registry alone,
// which seeds the genesis validators root.
func validatorRegistryRoot(validators []*types.Validator) (types.Root, error) {
	hh := ssz.NewHasher()
	subIndx := hh.Index()
	for _, v := range validators {
		if err := v.HashTreeRootWith(hh); err != nil {
			return types.Root{}, err
		}
	}
	hh.MerkleizeWithMixin(subIndx, uint64(len(validators)), types.ValidatorRegistryLimit)
	root, err := hh.HashRoot()
	if err != nil {
		return types.Root{}, err
	}
	return types.Root(root), nil
}

// ComputeForkDigest derives the 4-byte digest identifying the fork in force:
// the first bytes of hash(current_version ++ genesis_validators_root).
func ComputeForkDigest(version types.Version, genesisValidatorsRoot types.Root) types.ForkDigest {
	var buf [36]byte
	copy(buf[:4], version[:])
	copy(buf[4:], genesisValidatorsRoot[:])
	digest := sha256.Sum256(buf[:])
	var fd types.ForkDigest
	copy(fd[:], digest[:4])
	return fd
}
