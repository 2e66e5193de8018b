// Package console implements a line-oriented text protocol for playing a
// game from a terminal or a script.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hailam/chessrules/internal/board"
	"github.com/hailam/chessrules/internal/game"
	"github.com/hailam/chessrules/internal/storage"
)

// Archive stores and loads games. storage.Storage implements it.
type Archive interface {
	SaveGame(ctx context.Context, rec game.Record) error
	LoadGame(ctx context.Context, id uuid.UUID) (game.Record, error)
	LoadStats(ctx context.Context) (*storage.GameStats, error)
}

var errQuit = errors.New("quit")

// Console reads commands from in and writes replies to out.
type Console struct {
	in      io.Reader
	out     io.Writer
	rules   board.Rules
	archive Archive
	logger  *zap.Logger
	now     func() time.Time

	game *game.Game
}

// New creates a console. archive may be nil, which disables save and load.
func New(in io.Reader, out io.Writer, rules board.Rules, archive Archive, logger *zap.Logger) *Console {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Console{
		in:      in,
		out:     out,
		rules:   rules,
		archive: archive,
		logger:  logger.Named("console"),
		now:     time.Now,
	}
	c.game = c.newGame(nil)
	return c
}

func (c *Console) newGame(setup game.Option) *game.Game {
	opts := []game.Option{game.WithRules(c.rules), game.WithLogger(c.logger)}
	if setup != nil {
		opts = append(opts, setup)
	}
	return game.New(c.now().UTC(), opts...)
}

// Game returns the game being played.
func (c *Console) Game() *game.Game {
	return c.game
}

// Run processes commands until quit, end of input or ctx is done.
func (c *Console) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(c.in)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Fields(line)
		err := c.Exec(ctx, parts[0], parts[1:])
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			c.printf("error: %v\n", err)
		}
	}
	return scanner.Err()
}

// Exec runs one command.
func (c *Console) Exec(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "new":
		return c.handleNew(args)
	case "position":
		return c.handlePosition(args)
	case "move", "m":
		if len(args) != 1 {
			return fmt.Errorf("usage: move <from><to>")
		}
		return c.handleMove(args[0])
	case "promote":
		return c.handlePromote(args)
	case "moves":
		return c.handleMoves(args)
	case "d":
		c.drawBoard()
	case "fen":
		c.printf("%s\n", c.game.FEN())
	case "history":
		c.handleHistory()
	case "undo":
		if err := c.game.Undo(); err != nil {
			return err
		}
		c.printf("ok %d plies\n", c.game.PlyCount())
	case "result":
		return c.handleResult(args)
	case "perft":
		return c.handlePerft(args)
	case "save":
		return c.handleSave(ctx)
	case "load":
		return c.handleLoad(ctx, args)
	case "stats":
		return c.handleStats(ctx)
	case "help":
		c.printHelp()
	case "quit", "exit":
		return errQuit
	default:
		// a bare move is accepted as well
		if m, err := board.ParseMove(cmd); err == nil && len(args) == 0 {
			return c.handleMove(m.String())
		}
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}

func (c *Console) printf(format string, a ...any) {
	fmt.Fprintf(c.out, format, a...)
}

// handleNew starts a new game, optionally from a FEN.
func (c *Console) handleNew(args []string) error {
	if len(args) == 0 {
		c.game = c.newGame(nil)
		c.printf("ok %s\n", c.game.ID())
		return nil
	}

	withFEN, err := game.WithFEN(strings.Join(args, " "))
	if err != nil {
		return err
	}
	c.game = c.newGame(withFEN)
	c.printf("ok %s\n", c.game.ID())
	return nil
}

// handlePosition sets up a position and plays moves, in the style of:
//   - position startpos
//   - position startpos moves e2e4 e7e5
//   - position fen <fen> moves e2e4
func (c *Console) handlePosition(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: position startpos|fen <fen> [moves ...]")
	}

	setupEnd, moveStart := len(args), len(args)
	for i, arg := range args {
		if arg == "moves" {
			setupEnd, moveStart = i, i+1
			break
		}
	}

	var g *game.Game
	switch args[0] {
	case "startpos":
		g = c.newGame(nil)
	case "fen":
		withFEN, err := game.WithFEN(strings.Join(args[1:setupEnd], " "))
		if err != nil {
			return err
		}
		g = c.newGame(withFEN)
	default:
		return fmt.Errorf("unknown position %q", args[0])
	}

	for _, s := range args[moveStart:] {
		m, err := board.ParseMove(s)
		if err != nil {
			return err
		}
		if err := g.ApplyMove(m.From, m.To); err != nil {
			return fmt.Errorf("%s: %w", s, err)
		}
	}

	c.game = g
	c.printf("ok %s\n", g.FEN())
	return nil
}

func (c *Console) handleMove(s string) error {
	m, err := board.ParseMove(s)
	if err != nil {
		return err
	}
	if err := c.game.ApplyMove(m.From, m.To); err != nil {
		return err
	}
	c.printf("ok %s\n", m)
	return nil
}

func (c *Console) handlePromote(args []string) error {
	if len(args) != 2 || len(args[1]) != 1 {
		return fmt.Errorf("usage: promote <square> <q|r|b|n>")
	}
	pos, err := board.ParsePosition(args[0])
	if err != nil {
		return err
	}
	if err := c.game.Promote(pos, board.KindFromChar(args[1][0])); err != nil {
		return err
	}
	c.printf("ok %s=%s\n", pos, strings.ToUpper(args[1]))
	return nil
}

func (c *Console) handleMoves(args []string) error {
	ms := c.game.LegalMoves()
	if len(args) > 0 {
		pos, err := board.ParsePosition(args[0])
		if err != nil {
			return err
		}
		ms = ms.From(pos)
	}

	moves := ms.Slice()
	strs := make([]string, len(moves))
	for i, m := range moves {
		strs[i] = m.String()
	}
	c.printf("%d: %s\n", len(strs), strings.Join(strs, " "))
	return nil
}

func (c *Console) handleHistory() {
	for i, p := range c.game.History() {
		c.printf("%d. %s\n", i+1, p)
	}
}

func (c *Console) handleResult(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: result white_wins|black_wins|draw|aborted")
	}
	r, err := game.ParseResult(args[0])
	if err != nil {
		return err
	}
	if err := c.game.End(r, c.now().UTC()); err != nil {
		return err
	}
	c.printf("ok %s\n", r)
	return nil
}

// handlePerft counts generated positions from the current one.
func (c *Console) handlePerft(args []string) error {
	depth := 3
	if len(args) > 0 {
		d, err := strconv.Atoi(args[0])
		if err != nil || d < 1 {
			return fmt.Errorf("invalid depth %q", args[0])
		}
		depth = d
	}

	b := c.game.Board()
	start := time.Now()
	div := board.Divide(b, c.game.Rules(), c.game.Rights(), depth)
	elapsed := time.Since(start)

	moves := make([]board.Move, 0, len(div))
	var nodes int64
	for m, n := range div {
		moves = append(moves, m)
		nodes += n
	}
	sort.Slice(moves, func(i, j int) bool { return moves[i].String() < moves[j].String() })
	for _, m := range moves {
		c.printf("%s: %d\n", m, div[m])
	}

	c.printf("Nodes: %d\n", nodes)
	c.logger.Debug("perft", zap.Int("depth", depth), zap.Int64("nodes", nodes), zap.Duration("elapsed", elapsed))
	return nil
}

func (c *Console) handleSave(ctx context.Context) error {
	if c.archive == nil {
		return fmt.Errorf("no archive configured")
	}
	if err := c.archive.SaveGame(ctx, c.game.Record()); err != nil {
		return err
	}
	c.printf("ok %s\n", c.game.ID())
	return nil
}

func (c *Console) handleLoad(ctx context.Context, args []string) error {
	if c.archive == nil {
		return fmt.Errorf("no archive configured")
	}
	if len(args) != 1 {
		return fmt.Errorf("usage: load <game id>")
	}
	id, err := uuid.Parse(args[0])
	if err != nil {
		return err
	}
	rec, err := c.archive.LoadGame(ctx, id)
	if err != nil {
		return err
	}
	g, err := game.FromRecord(rec, c.logger)
	if err != nil {
		return err
	}
	c.game = g
	c.printf("ok %s\n", g.FEN())
	return nil
}

func (c *Console) handleStats(ctx context.Context) error {
	if c.archive == nil {
		return fmt.Errorf("no archive configured")
	}
	stats, err := c.archive.LoadStats(ctx)
	if err != nil {
		return err
	}
	c.printf("Games: %d (white %d, black %d, draws %d, aborted %d)\n",
		stats.GamesPlayed, stats.WhiteWins, stats.BlackWins, stats.Draws, stats.Aborted)
	c.printf("Average plies: %.1f, longest: %d\n", stats.AveragePlies(), stats.LongestGame)
	c.printf("Play time: %s\n", stats.TotalPlayTime)
	return nil
}

func (c *Console) printHelp() {
	c.printf(`commands:
  new [fen]                     start a new game
  position startpos|fen <fen> [moves ...]
  move <from><to>               play a move (a bare "e2e4" works too)
  promote <square> <q|r|b|n>    promote a pawn on its last rank
  moves [square]                list generated moves
  d                             draw the board
  fen                           print the position
  history                       list plies
  undo                          take back the last ply
  result <result>               finish the game
  perft [depth]                 count positions
  save | load <id>              archive or restore the game
  stats                         totals over finished games
  quit
`)
}

var (
	lightSquare = color.New(color.BgHiYellow)
	darkSquare  = color.New(color.BgYellow)
	whiteInk    = color.New(color.FgHiWhite, color.Bold)
	blackInk    = color.New(color.FgBlack, color.Bold)
	highlight   = color.New(color.BgHiGreen)
)

// drawBoard prints the board with coloured squares; the last move is
// highlighted.
func (c *Console) drawBoard() {
	snap := c.game.Snapshot()
	var from, to board.Position
	hasLast := snap.LastMove != nil
	if hasLast {
		from, to = snap.LastMove.From, snap.LastMove.To
	}

	c.printf("\n")
	for y := board.Size - 1; y >= 0; y-- {
		c.printf("%d ", y+1)
		for x := 0; x < board.Size; x++ {
			pos := board.NewPosition(x, y)
			bg := lightSquare
			if (x+y)%2 == 0 {
				bg = darkSquare
			}
			if hasLast && (pos == from || pos == to) {
				bg = highlight
			}

			p := snap.Squares[y][x]
			cell := "   "
			if !p.IsNone() {
				ink := whiteInk
				if p.Owner == board.Black {
					ink = blackInk
				}
				cell = " " + ink.Sprint(string(p.Char())) + " "
			}
			c.printf("%s", bg.Sprint(cell))
		}
		c.printf("\n")
	}
	c.printf("   a  b  c  d  e  f  g  h\n\n")
	c.printf("Side to move: %s\n", snap.Turn)
	c.printf("Castling: %s\n", snap.Rights)
	c.printf("Moves: %d\n", len(snap.Moves))
	if snap.InCheck {
		c.printf("Check!\n")
	}
	if snap.Result.IsOver() {
		c.printf("Result: %s\n", snap.Result)
	}
}
