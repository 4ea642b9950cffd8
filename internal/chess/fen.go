package chess

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ErrInvalidFEN is matched by every error DecodeFEN returns.
var ErrInvalidFEN = errors.New("invalid FEN")

// FENField names the part of a FEN string that failed to parse.
type FENField string

const (
	FieldCount     FENField = "fields"
	FieldPlacement FENField = "placement"
	FieldTurn      FENField = "side to move"
	FieldCastling  FENField = "castling"
	FieldEnPassant FENField = "en passant"
	FieldHalfmove  FENField = "halfmove clock"
	FieldFullmove  FENField = "fullmove number"
)

// FENError reports a malformed field of a FEN string.
type FENError struct {
	Field  FENField
	Value  string
	Reason string
}

func (e *FENError) Error() string {
	return fmt.Sprintf("invalid FEN: malformed %s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *FENError) Is(target error) bool {
	return target == ErrInvalidFEN
}

func malformed(field FENField, value, format string, args ...interface{}) error {
	return &FENError{Field: field, Value: value, Reason: fmt.Sprintf(format, args...)}
}

// DecodeFEN parses a FEN string. All six fields are required.
func DecodeFEN(fen string) (Position, error) {
	parts := strings.Fields(fen)
	if len(parts) != 6 {
		return Position{}, malformed(FieldCount, fen, "need 6 fields, got %d", len(parts))
	}

	pos := Position{EnPassant: NoSquare}

	if err := parsePlacement(&pos, parts[0]); err != nil {
		return Position{}, err
	}

	switch parts[1] {
	case "w":
		pos.Turn = White
	case "b":
		pos.Turn = Black
	default:
		return Position{}, malformed(FieldTurn, parts[1], "expected w or b")
	}

	castling, err := parseCastling(parts[2])
	if err != nil {
		return Position{}, err
	}
	pos.Castling = castling

	if parts[3] != "-" {
		sq, err := ParseSquare(parts[3])
		if err != nil {
			return Position{}, malformed(FieldEnPassant, parts[3], "not a square")
		}
		want := 5
		if pos.Turn == Black {
			want = 2
		}
		if sq.Rank() != want {
			return Position{}, malformed(FieldEnPassant, parts[3], "target must be on rank %d", want+1)
		}
		pos.EnPassant = sq
	}

	hmc, err := strconv.Atoi(parts[4])
	if err != nil || hmc < 0 {
		return Position{}, malformed(FieldHalfmove, parts[4], "expected a non-negative integer")
	}
	pos.HalfmoveClock = hmc

	fmn, err := strconv.Atoi(parts[5])
	if err != nil || fmn < 1 {
		return Position{}, malformed(FieldFullmove, parts[5], "expected a positive integer")
	}
	pos.FullmoveNumber = fmn

	if pos.IsAttacked(pos.KingSquare(pos.Turn.Other()), pos.Turn) {
		return Position{}, malformed(FieldPlacement, parts[0], "side not to move is in check")
	}

	return pos, nil
}

func parsePlacement(pos *Position, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return malformed(FieldPlacement, placement, "need 8 ranks, got %d", len(ranks))
	}

	var kings [2]int
	for i, rankStr := range ranks {
		rank := 7 - i
		file := 0
		for j := 0; j < len(rankStr); j++ {
			c := rankStr[j]
			if c >= '1' && c <= '8' {
				file += int(c - '0')
				if file > 8 {
					return malformed(FieldPlacement, rankStr, "rank %d has more than 8 files", rank+1)
				}
				continue
			}
			pc, ok := pieceFromChar(c)
			if !ok {
				return malformed(FieldPlacement, rankStr, "invalid piece character %q", c)
			}
			if file > 7 {
				return malformed(FieldPlacement, rankStr, "rank %d has more than 8 files", rank+1)
			}
			if pc.Type == Pawn && (rank == 0 || rank == 7) {
				return malformed(FieldPlacement, rankStr, "pawn on rank %d", rank+1)
			}
			if pc.Type == King {
				kings[pc.Color]++
			}
			pos.Board[NewSquare(file, rank)] = pc
			file++
		}
		if file != 8 {
			return malformed(FieldPlacement, rankStr, "rank %d has %d files", rank+1, file)
		}
	}

	if kings[White] != 1 || kings[Black] != 1 {
		return malformed(FieldPlacement, placement, "need exactly one king per side, got %d white and %d black", kings[White], kings[Black])
	}
	return nil
}

func parseCastling(s string) (CastlingRights, error) {
	if s == "-" {
		return NoCastling, nil
	}
	var rights CastlingRights
	for i := 0; i < len(s); i++ {
		var r CastlingRights
		switch s[i] {
		case 'K':
			r = WhiteKingSide
		case 'Q':
			r = WhiteQueenSide
		case 'k':
			r = BlackKingSide
		case 'q':
			r = BlackQueenSide
		default:
			return NoCastling, malformed(FieldCastling, s, "invalid character %q", s[i])
		}
		if rights.Has(r) {
			return NoCastling, malformed(FieldCastling, s, "duplicate right %q", s[i])
		}
		rights |= r
	}
	return rights, nil
}

// FEN encodes the position. It never fails.
func (p Position) FEN() string {
	var sb strings.Builder
	sb.Grow(90)
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			pc := p.Board[NewSquare(file, rank)]
			if pc.IsEmpty() {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(pc.Char())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	if p.Turn == White {
		sb.WriteString(" w ")
	} else {
		sb.WriteString(" b ")
	}
	sb.WriteString(p.Castling.String())
	sb.WriteByte(' ')
	sb.WriteString(p.EnPassant.String())
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.HalfmoveClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.FullmoveNumber))
	return sb.String()
}

// EncodeFEN is the function form of Position.FEN.
func EncodeFEN(p Position) string {
	return p.FEN()
}
