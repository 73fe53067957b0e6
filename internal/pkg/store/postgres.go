package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kollektive-hackathon/stakefour-backend/internal/pkg/connectfour"
	"github.com/kollektive-hackathon/stakefour-backend/internal/pkg/model"
)

// PostgresStore keeps records in the game and move_history tables. A record is held
// with SELECT ... FOR UPDATE for the duration of a change.
type PostgresStore struct {
	db *gorm.DB
}

func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Migrate() error {
	return s.db.AutoMigrate(&model.Game{}, &model.MoveHistory{})
}

func (s *PostgresStore) Insert(ctx context.Context, rec *connectfour.GameRecord, confirm Confirm) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := toGameModel(rec)
		row.TimeCreated = time.Now().UTC()
		row.TimeUpdated = row.TimeCreated

		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
		if result.Error != nil {
			log.Warn().Err(result.Error).Str("reference", rec.Reference).Msg("error persisting game to database")
			return result.Error
		}
		if result.RowsAffected == 0 {
			return connectfour.ErrDuplicateReference
		}
		if err := insertMoves(tx, rec.Reference, rec.Moves); err != nil {
			return err
		}

		return confirm(rec.Clone())
	})
}

func (s *PostgresStore) Get(ctx context.Context, reference string) (*connectfour.GameRecord, error) {
	return load(s.db.WithContext(ctx), reference)
}

func (s *PostgresStore) Update(ctx context.Context, reference string, mutate Confirm) (*connectfour.GameRecord, error) {
	var updated *connectfour.GameRecord
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := load(tx.Clauses(clause.Locking{Strength: "UPDATE"}), reference)
		if err != nil {
			return err
		}

		working := current.Clone()
		if err := mutate(working); err != nil {
			return err
		}

		row := toGameModel(working)
		result := tx.Model(&model.Game{}).
			Where("reference = ?", reference).
			Updates(map[string]any{
				"player1":         row.Player1,
				"winner":          row.Winner,
				"board":           row.Board,
				"game_status":     row.GameStatus,
				"turn":            row.Turn,
				"stake":           row.Stake,
				"settling_player": row.SettlingPlayer,
				"settling_column": row.SettlingColumn,
				"time_updated":    time.Now().UTC(),
			})
		if result.Error != nil {
			log.Warn().Err(result.Error).Str("reference", reference).Msg("error updating game")
			return result.Error
		}
		if err := insertMoves(tx, reference, working.Moves[len(current.Moves):]); err != nil {
			return err
		}

		updated = working
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *PostgresStore) Delete(ctx context.Context, reference string, confirm Confirm) (*connectfour.GameRecord, error) {
	var removed *connectfour.GameRecord
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := load(tx.Clauses(clause.Locking{Strength: "UPDATE"}), reference)
		if err != nil {
			return err
		}
		if err := confirm(current.Clone()); err != nil {
			return err
		}

		if err := tx.Where("game_reference = ?", reference).Delete(&model.MoveHistory{}).Error; err != nil {
			return err
		}
		if err := tx.Where("reference = ?", reference).Delete(&model.Game{}).Error; err != nil {
			return err
		}
		removed = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

func (s *PostgresStore) Moves(ctx context.Context, reference string, offset, limit int) ([]connectfour.Move, int64, error) {
	db := s.db.WithContext(ctx)

	var exists int64
	if err := db.Model(&model.Game{}).Where("reference = ?", reference).Count(&exists).Error; err != nil {
		return nil, 0, err
	}
	if exists == 0 {
		return nil, 0, connectfour.ErrGameNotFound
	}

	var count int64
	if err := db.Model(&model.MoveHistory{}).Where("game_reference = ?", reference).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.MoveHistory
	query := db.Where("game_reference = ?", reference).Order("number").Offset(offset)
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	moves := make([]connectfour.Move, 0, len(rows))
	for _, row := range rows {
		moves = append(moves, fromMoveModel(row))
	}
	return moves, count, nil
}

func (s *PostgresStore) OpenStakes(ctx context.Context) (uint64, error) {
	var total uint64
	err := s.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(CASE game_status WHEN ? THEN stake / 2 ELSE stake END), 0)::bigint
		  FROM game
		 WHERE game_status IN (?, ?)`,
		model.GameNotStarted, model.GameNotStarted, model.GameInProgress).
		Scan(&total).Error
	return total, err
}

func load(db *gorm.DB, reference string) (*connectfour.GameRecord, error) {
	var row model.Game
	if err := db.Where("reference = ?", reference).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, connectfour.ErrGameNotFound
		}
		return nil, err
	}

	var moves []model.MoveHistory
	if err := db.Session(&gorm.Session{NewDB: true}).
		Where("game_reference = ?", reference).
		Order("number").
		Find(&moves).Error; err != nil {
		return nil, err
	}

	return fromGameModel(row, moves)
}

func insertMoves(tx *gorm.DB, reference string, moves []connectfour.Move) error {
	if len(moves) == 0 {
		return nil
	}
	playedAt := time.Now().UTC()
	rows := make([]model.MoveHistory, 0, len(moves))
	for _, m := range moves {
		rows = append(rows, model.MoveHistory{
			GameReference: reference,
			Number:        m.Number,
			Player:        m.Player,
			Row:           m.Row,
			Column:        m.Column,
			PlayedAt:      playedAt,
		})
	}
	if err := tx.Create(&rows).Error; err != nil {
		log.Warn().Err(err).Str("reference", reference).Msg("cannot create move history")
		return err
	}
	return nil
}

func toGameModel(rec *connectfour.GameRecord) model.Game {
	row := model.Game{
		Reference:  rec.Reference,
		Nonce:      rec.Nonce,
		Player0:    string(rec.Player0),
		Player1:    optional(rec.Player1),
		Winner:     optional(rec.Winner),
		Board:      rec.Board.String(),
		GameStatus: model.GameStatus(rec.Phase.String()),
		Turn:       rec.Turn,
		Stake:      rec.Stake,
	}
	if rec.Settling != nil {
		player, column := rec.Settling.Player, uint8(rec.Settling.Column)
		row.SettlingPlayer = &player
		row.SettlingColumn = &column
	}
	return row
}

func fromGameModel(row model.Game, moves []model.MoveHistory) (*connectfour.GameRecord, error) {
	board, err := connectfour.ParseBoard(row.Board)
	if err != nil {
		return nil, fmt.Errorf("game %s: %w", row.Reference, err)
	}
	phase, err := connectfour.ParsePhase(string(row.GameStatus))
	if err != nil {
		return nil, fmt.Errorf("game %s: %w", row.Reference, err)
	}

	rec := &connectfour.GameRecord{
		Reference: row.Reference,
		Nonce:     row.Nonce,
		Player0:   connectfour.PlayerID(row.Player0),
		Board:     board,
		Phase:     phase,
		Turn:      row.Turn,
		Stake:     row.Stake,
	}
	if row.Player1 != nil {
		rec.Player1 = connectfour.PlayerID(*row.Player1)
	}
	if row.Winner != nil {
		rec.Winner = connectfour.PlayerID(*row.Winner)
	}
	if row.SettlingPlayer != nil && row.SettlingColumn != nil {
		rec.Settling = &connectfour.SettlingMove{Player: *row.SettlingPlayer, Column: int(*row.SettlingColumn)}
	}
	for _, m := range moves {
		rec.Moves = append(rec.Moves, fromMoveModel(m))
	}
	return rec, nil
}

func fromMoveModel(row model.MoveHistory) connectfour.Move {
	return connectfour.Move{
		Number: row.Number,
		Player: row.Player,
		Row:    row.Row,
		Column: row.Column,
	}
}

func optional(id connectfour.PlayerID) *string {
	if id == "" {
		return nil
	}
	s := string(id)
	return &s
}
