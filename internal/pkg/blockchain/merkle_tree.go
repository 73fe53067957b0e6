package blockchain

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/wealdtech/go-merkletree"
	keccak "github.com/wealdtech/go-merkletree/keccak256"

	"github.com/kollektive-hackathon/stakefour-backend/internal/pkg/connectfour"
)

var ErrEmptyMoveLog = errors.New("move log is empty")

// MoveProof shows that a move is part of the log committed to by Root.
type MoveProof struct {
	Move   connectfour.Move `json:"move"`
	Leaf   string           `json:"leaf"`
	Root   string           `json:"root"`
	Index  uint64           `json:"index"`
	Hashes []string         `json:"hashes"`
}

func CreateMerkleTreeNode(m connectfour.Move) []byte {
	// Format: NUMBER|PLAYER|ROW|COLUMN
	return []byte(fmt.Sprintf("%d|%d|%d|%d", m.Number, m.Player, m.Row, m.Column))
}

func CreateMerkleTreeFromMoves(moves []connectfour.Move) (*merkletree.MerkleTree, [][]byte, error) {
	if len(moves) == 0 {
		return nil, nil, ErrEmptyMoveLog
	}

	treeData := make([][]byte, 0, len(moves))
	for _, m := range moves {
		treeData = append(treeData, CreateMerkleTreeNode(m))
	}

	mt, err := merkletree.NewUsing(treeData, keccak.New(), nil)
	if err != nil {
		log.Warn().Err(err).Msg("Error while creating merkle tree")
		return nil, nil, err
	}

	return mt, treeData, nil
}

// MoveLogRoot is the hex keccak256 Merkle root of the moves, or "" when there are none.
func MoveLogRoot(moves []connectfour.Move) (string, error) {
	if len(moves) == 0 {
		return "", nil
	}
	mt, _, err := CreateMerkleTreeFromMoves(moves)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(mt.Root()), nil
}

// ProveMove builds the inclusion proof for the move with the given number.
func ProveMove(moves []connectfour.Move, number uint16) (*MoveProof, error) {
	if number == 0 || int(number) > len(moves) {
		return nil, connectfour.ErrMoveNotFound
	}
	mt, treeData, err := CreateMerkleTreeFromMoves(moves)
	if err != nil {
		return nil, err
	}

	leaf := treeData[number-1]
	proof, err := mt.GenerateProof(leaf)
	if err != nil {
		return nil, err
	}

	hashes := make([]string, 0, len(proof.Hashes))
	for _, h := range proof.Hashes {
		hashes = append(hashes, hex.EncodeToString(h))
	}
	return &MoveProof{
		Move:   moves[number-1],
		Leaf:   string(leaf),
		Root:   hex.EncodeToString(mt.Root()),
		Index:  proof.Index,
		Hashes: hashes,
	}, nil
}
