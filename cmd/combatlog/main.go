// Command combatlog inspects exported combat logs and runs the fleet
// simulator from the command line.
//
//	combatlog [-gamedata data.json] [-trace] [-json] journal.json
//	combatlog -sim scenario.json [-iterations 1000] [-seed 1]
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/pefman/stfc-combat/internal/battlelog"
	"github.com/pefman/stfc-combat/internal/combatlog"
	"github.com/pefman/stfc-combat/internal/combatstats"
	"github.com/pefman/stfc-combat/internal/config"
	"github.com/pefman/stfc-combat/internal/game"
	"github.com/pefman/stfc-combat/internal/gamedata"
	"github.com/pefman/stfc-combat/internal/logging"
	"github.com/pefman/stfc-combat/internal/models"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "combatlog:", err)
		os.Exit(1)
	}
}

type options struct {
	gameData   string
	trace      bool
	asJSON     bool
	sim        string
	iterations int
	seed       int64
	workers    int
	logLevel   string
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("combatlog", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var o options
	fs.StringVar(&o.gameData, "gamedata", os.Getenv("STFC_GAMEDATA"), "game data JSON used to resolve names")
	fs.BoolVar(&o.trace, "trace", false, "print the battle log tag trace")
	fs.BoolVar(&o.asJSON, "json", false, "print JSON instead of a table")
	fs.StringVar(&o.sim, "sim", "", "run the simulator on this scenario file (\"default\" for the built-in one)")
	fs.IntVar(&o.iterations, "iterations", 1000, "simulation iterations")
	fs.Int64Var(&o.seed, "seed", 0, "simulation seed (0 = time based)")
	fs.IntVar(&o.workers, "workers", 0, "concurrent simulations (0 = GOMAXPROCS)")
	fs.StringVar(&o.logLevel, "log-level", "warn", "log level")
	if err := fs.Parse(args); err != nil {
		return err
	}

	log, err := logging.New(config.Log{Level: o.logLevel, Encoding: "console"})
	if err != nil {
		return err
	}
	defer log.Sync()

	if o.sim != "" {
		return simulate(o, log, stdout)
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errors.New("expected exactly one journal file")
	}
	return inspect(fs.Arg(0), o, log, stdout)
}

func inspect(path string, o options, log *zap.Logger, w io.Writer) error {
	var msg models.JournalMessage
	if err := readJSON(path, &msg); err != nil {
		return err
	}
	gd := gamedata.Empty()
	if o.gameData != "" {
		var err error
		if gd, err = gamedata.Load(o.gameData); err != nil {
			return err
		}
	}

	if o.trace {
		fmt.Fprintln(w, strings.Join(battlelog.ExtractTags(msg.Journal.BattleLog), "\n"))
		if _, err := battlelog.Parse(msg.Journal.BattleLog); err != nil {
			fmt.Fprintln(w, "parse error:", err)
		}
		return nil
	}

	parsed := combatlog.Parse(log, msg, gd)
	report := combatlog.BuildReport(parsed, gd)
	if o.asJSON {
		return writeJSON(w, report)
	}
	return report.WriteText(w)
}

func simulate(o options, log *zap.Logger, w io.Writer) error {
	data := models.DefaultCombatData()
	if o.sim != "default" {
		data = models.CombatData{}
		if err := readJSON(o.sim, &data); err != nil {
			return err
		}
	}
	sim := &game.Simulator{Workers: o.workers, Seed: o.seed, Logger: log}
	res := sim.Run(context.Background(), data, o.iterations)
	if res.Iterations == 0 && o.iterations > 0 {
		return fmt.Errorf("simulation failed: %s", res.ExampleLog)
	}
	if o.asJSON {
		return writeJSON(w, res)
	}

	avg := res.AverageOutcome
	fmt.Fprintf(w, "%d iterations in %.1f ms\n", res.Iterations, res.SimulationDuration)
	fmt.Fprintf(w, "rounds          %8.2f\n", avg.Rounds)
	fmt.Fprintf(w, "attacker win    %7.1f%%   losses %6.2f   shield dmg %s   hull dmg %s\n",
		avg.AttackerWin*100, avg.AttackerLosses, combatstats.ShortNumber(avg.AttackerShieldDamage), combatstats.ShortNumber(avg.AttackerHullDamage))
	fmt.Fprintf(w, "defender win    %7.1f%%   losses %6.2f   shield dmg %s   hull dmg %s\n",
		avg.DefenderWin*100, avg.DefenderLosses, combatstats.ShortNumber(avg.DefenderShieldDamage), combatstats.ShortNumber(avg.DefenderHullDamage))
	fmt.Fprintf(w, "\nexample battle:\n%s", res.ExampleLog)
	return nil
}

func readJSON(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
