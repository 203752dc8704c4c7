/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mikeb26/armelo/elo"
	"github.com/mikeb26/armelo/internal"
	"github.com/mikeb26/armelo/ranking"
	"github.com/mikeb26/armelo/s3backup"
)

func parseFlags(fs *flag.FlagSet, args []string) {
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
}

// usageError reports a bad invocation and exits.
func usageError(fs *flag.FlagSet, err error) {
	fmt.Fprintf(os.Stderr, "%v\n", err)
	fs.Usage()
	os.Exit(1)
}

func mustFormat(fs *flag.FlagSet, name string) elo.Format {
	f, err := elo.LookupFormat(name)
	if err != nil {
		usageError(fs, err)
	}
	return f
}

func mustArm(fs *flag.FlagSet, name string) ranking.Arm {
	arm, err := ranking.ParseArm(name)
	if err != nil {
		usageError(fs, err)
	}
	return arm
}

func handleFormats(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("formats", flag.ExitOnError)
	parseFlags(fs, args)

	fmt.Printf("%-22s %6s %5s %-10s %7s\n", "Format", "Rounds", "K", "Kind", "Default")
	for _, f := range elo.Formats {
		name := f.Name
		if name == elo.DefaultFormatName {
			name += " *"
		}
		fmt.Printf("%-22s %6d %5v %-10v %7v\n", name, f.Rounds, f.KFactor, f.Kind,
			f.DefaultScore())
	}
}

func handleRanking(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("ranking", flag.ExitOnError)
	cfgPath := configFlag(fs)
	armName := armFlag(fs)
	parseFlags(fs, args)
	arm := mustArm(fs, *armName)

	a := openApp(*cfgPath)
	defer a.close()

	standings, err := a.svc.Leaderboard(ctx, arm)
	if err != nil {
		a.fatal("Error fetching %v arm ranking: %v", arm, err)
	}
	if len(standings) == 0 {
		fmt.Println("No competitors yet.")
		return
	}
	fmt.Printf("Ranking (%v arm)\n", arm)
	for _, s := range standings {
		fmt.Printf("%4d. %-24s %6.0f\n", s.Rank, s.Name, s.Rating)
	}
}

func handleClosest(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("closest", flag.ExitOnError)
	cfgPath := configFlag(fs)
	armName := armFlag(fs)
	formatName := formatFlag(fs, elo.DefaultFormatName)
	limit := fs.Int("limit", ranking.DefaultClosestLimit, "Number of pairings to show")
	parseFlags(fs, args)
	arm := mustArm(fs, *armName)
	f := mustFormat(fs, *formatName)

	a := openApp(*cfgPath)
	defer a.close()

	matchups, err := a.svc.ClosestMatches(ctx, arm, *limit, f.Rounds)
	if err != nil {
		a.fatal("Error computing closest matches: %v", err)
	}
	if len(matchups) == 0 {
		fmt.Println("Not enough competitors for a pairing.")
		return
	}
	for _, m := range matchups {
		winA, winB, draw := m.Prediction.Percentages()
		fmt.Printf("%s (%.0f) vs %s (%.0f): gap %.0f, %v%% / %v%%",
			m.A.Name, m.A.Rating, m.B.Name, m.B.Rating, m.Gap, winA, winB)
		if draw > 0 {
			fmt.Printf(", draw %v%%", draw)
		}
		fmt.Println()
	}
}

func handlePredict(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("predict", flag.ExitOnError)
	cfgPath := configFlag(fs)
	armName := armFlag(fs)
	formatName := formatFlag(fs, elo.DefaultFormatName)
	parseFlags(fs, args)
	arm := mustArm(fs, *armName)
	f := mustFormat(fs, *formatName)
	nameA, nameB, err := twoNames(fs)
	if err != nil {
		usageError(fs, err)
	}

	a := openApp(*cfgPath)
	defer a.close()

	fc, err := a.svc.Forecast(ctx, arm, nameA, nameB, f)
	if err != nil {
		a.fatal("Error predicting %v vs %v: %v", nameA, nameB, err)
	}
	winA, winB, draw := fc.Prediction.Percentages()
	fmt.Printf("%s (%.0f) vs %s (%.0f), %v arm, %v\n", fc.NameA, fc.RatingA,
		fc.NameB, fc.RatingB, fc.Arm, fc.Format.Name)
	fmt.Printf("Expected rounds: %v\n", fc.Expected)
	fmt.Printf("%s wins: %v%%\n", fc.NameA, winA)
	fmt.Printf("%s wins: %v%%\n", fc.NameB, winB)
	if draw > 0 {
		fmt.Printf("Draw: %v%%\n", draw)
	}
}

func handleSupermatch(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("supermatch", flag.ExitOnError)
	cfgPath := configFlag(fs)
	armName := armFlag(fs)
	formatName := formatFlag(fs, elo.DefaultFormatName)
	slider, scoreStr := scoreFlags(fs)
	submit := fs.Bool("submit", false, "Record the result and update ratings")
	parseFlags(fs, args)
	arm := mustArm(fs, *armName)
	f := mustFormat(fs, *formatName)
	nameA, nameB, err := twoNames(fs)
	if err != nil {
		usageError(fs, err)
	}
	score, fellBack, err := resolveScore(f, *slider, *scoreStr)
	if err != nil {
		usageError(fs, err)
	}
	if fellBack {
		fmt.Printf("Score %q does not fit %v; using %v\n", *scoreStr, f.Name, score)
	}

	a := openApp(*cfgPath)
	defer a.close()

	if !*submit {
		p, err := a.svc.Preview(ctx, arm, nameA, nameB, f, score)
		if err != nil {
			a.fatal("Error previewing %v vs %v: %v", nameA, nameB, err)
		}
		fmt.Printf("%s %v %s (%v, %v arm)\n", nameA, score, nameB, f.Name, arm)
		fmt.Printf("  %s: %.0f -> %.0f (%+d)\n", nameA, p.RatingA, p.Outcome.NewA,
			p.Outcome.DeltaA)
		fmt.Printf("  %s: %.0f -> %.0f (%+d)\n", nameB, p.RatingB, p.Outcome.NewB,
			p.Outcome.DeltaB)
		fmt.Printf("\nRun again with --submit to record this result\n")
		return
	}

	rec, err := a.svc.Submit(ctx, arm, nameA, nameB, f, score)
	if err != nil {
		a.fatal("Error recording %v vs %v: %v", nameA, nameB, err)
	}
	fmt.Printf("Recorded match %d: %s %v %s (%v, %v arm)\n", rec.ID, rec.NameA,
		score, rec.NameB, rec.Format, rec.Arm)
	fmt.Printf("  %s: %.0f -> %.0f (%+d)\n", rec.NameA, rec.RatingA,
		rec.RatingA+float64(rec.DeltaA), rec.DeltaA)
	fmt.Printf("  %s: %.0f -> %.0f (%+d)\n", rec.NameB, rec.RatingB,
		rec.RatingB+float64(rec.DeltaB), rec.DeltaB)
}

func handleUndo(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("undo", flag.ExitOnError)
	cfgPath := configFlag(fs)
	parseFlags(fs, args)

	a := openApp(*cfgPath)
	defer a.close()

	rec, err := a.svc.Undo(ctx)
	if errors.Is(err, ranking.ErrNoHistory) {
		fmt.Println("Nothing to undo.")
		return
	}
	if err != nil {
		a.fatal("Error undoing last match: %v", err)
	}
	fmt.Printf("Reverted match %d: %s vs %s (%v arm); ratings restored to %.0f and %.0f\n",
		rec.ID, rec.NameA, rec.NameB, rec.Arm, rec.RatingA, rec.RatingB)
}

func handleHistory(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	cfgPath := configFlag(fs)
	limit := fs.Int("limit", 20, "Maximum number of matches to show")
	sinceStr := fs.String("since", "", "Only show matches on or after this date")
	parseFlags(fs, args)
	since, err := internal.ParseDateOrZero(*sinceStr)
	if err != nil {
		usageError(fs, fmt.Errorf("invalid --since %q: %w", *sinceStr, err))
	}

	a := openApp(*cfgPath)
	defer a.close()

	recs, err := a.svc.History(ctx, *limit, since)
	if err != nil {
		a.fatal("Error fetching history: %v", err)
	}
	if len(recs) == 0 {
		fmt.Println("No matches recorded.")
		return
	}
	for _, r := range recs {
		fmt.Printf("%4d %s %-5v #%d %s (%.0f, %+d) %v-%v #%d %s (%.0f, %+d) [%s]\n",
			r.ID, r.CreatedAt.Format("2006-01-02"), r.Arm,
			r.RankA, r.NameA, r.RatingA, r.DeltaA, r.ScoreA, r.ScoreB,
			r.RankB, r.NameB, r.RatingB, r.DeltaB, r.Format)
	}
}

func handleImplied(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("implied", flag.ExitOnError)
	cfgPath := configFlag(fs)
	armName := armFlag(fs)
	formatName := formatFlag(fs, elo.DefaultOnboardFormatName)
	slider, scoreStr := scoreFlags(fs)
	parseFlags(fs, args)
	arm := mustArm(fs, *armName)
	f := mustFormat(fs, *formatName)
	if fs.NArg() != 1 {
		usageError(fs, errors.New("expected the ranked opponent's name"))
	}
	score, fellBack, err := resolveScore(f, *slider, *scoreStr)
	if err != nil {
		usageError(fs, err)
	}
	if fellBack {
		fmt.Printf("Score %q does not fit %v; using %v\n", *scoreStr, f.Name, score)
	}

	a := openApp(*cfgPath)
	defer a.close()

	rating, err := a.svc.ImpliedRating(ctx, arm, fs.Arg(0), score)
	if errors.Is(err, elo.ErrIndeterminateInference) {
		fmt.Printf("A %v result against %s does not determine a rating.\n",
			score, fs.Arg(0))
		return
	}
	if err != nil {
		a.fatal("Error computing implied rating: %v", err)
	}
	fmt.Printf("Implied %v arm rating: %.0f\n", arm, rating)
}

func handleCalibrate(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("calibrate", flag.ExitOnError)
	cfgPath := configFlag(fs)
	armName := armFlag(fs)
	formatName := formatFlag(fs, elo.DefaultOnboardFormatName)
	parseFlags(fs, args)
	arm := mustArm(fs, *armName)
	f := mustFormat(fs, *formatName)
	if fs.NArg() == 0 {
		usageError(fs, errors.New("expected at least one OPPONENT:A-B reference"))
	}
	refs, err := parseReferences(fs.Args(), f)
	if err != nil {
		usageError(fs, err)
	}

	a := openApp(*cfgPath)
	defer a.close()

	cal, err := a.svc.Calibrate(ctx, arm, refs)
	if err != nil {
		a.fatal("Error calibrating: %v", err)
	}
	if cal.Refs == 0 {
		fmt.Println("No reference determined a rating.")
		return
	}
	fmt.Printf("Calibrated %v arm rating: %.0f (%d of %d references)\n", arm,
		cal.Rating, cal.Refs, len(refs))
}

func parseReferences(args []string, f elo.Format) ([]ranking.Reference, error) {
	refs := make([]ranking.Reference, 0, len(args))
	for _, arg := range args {
		ref, fellBack, err := parseReference(arg, f)
		if err != nil {
			return nil, err
		}
		if fellBack {
			fmt.Printf("Reference %q does not fit %v; using %v\n", arg, f.Name,
				ref.Score)
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

func handleAdd(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	cfgPath := configFlag(fs)
	right := fs.Float64("right", 0, "Right arm rating")
	left := fs.Float64("left", 0, "Left arm rating")
	formatName := formatFlag(fs, elo.DefaultOnboardFormatName)
	var refsRight, refsLeft refList
	fs.Var(&refsRight, "ref-right", "Right arm reference OPPONENT:A-B (repeatable)")
	fs.Var(&refsLeft, "ref-left", "Left arm reference OPPONENT:A-B (repeatable)")
	parseFlags(fs, args)
	f := mustFormat(fs, *formatName)
	if fs.NArg() != 1 {
		usageError(fs, errors.New("expected the new competitor's name"))
	}
	name := fs.Arg(0)

	a := openApp(*cfgPath)
	defer a.close()

	calibrate := func(arm ranking.Arm, rating float64, raw refList) float64 {
		if rating > 0 || len(raw) == 0 {
			return rating
		}
		refs, err := parseReferences(raw, f)
		if err != nil {
			a.fatal("Error adding %v: %v", name, err)
		}
		cal, err := a.svc.Calibrate(ctx, arm, refs)
		if err != nil {
			a.fatal("Error adding %v: %v", name, err)
		}
		return cal.Rating
	}
	r := calibrate(ranking.Right, *right, refsRight)
	l := calibrate(ranking.Left, *left, refsLeft)

	if err := a.svc.AddCompetitor(ctx, name, r, l); err != nil {
		a.fatal("Error adding %v: %v", name, err)
	}
	fmt.Printf("Added %s (right %.0f, left %.0f)\n", strings.TrimSpace(name), r, l)
}

func handleRemove(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("remove", flag.ExitOnError)
	cfgPath := configFlag(fs)
	parseFlags(fs, args)
	if fs.NArg() != 1 {
		usageError(fs, errors.New("expected the competitor's name"))
	}

	a := openApp(*cfgPath)
	defer a.close()

	if err := a.svc.RemoveCompetitor(ctx, fs.Arg(0)); err != nil {
		a.fatal("Error removing %v: %v", fs.Arg(0), err)
	}
	fmt.Printf("Removed %s\n", fs.Arg(0))
}

func handleExport(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	cfgPath := configFlag(fs)
	parseFlags(fs, args)

	a := openApp(*cfgPath)
	defer a.close()

	data, err := a.db.ExportJSON(ctx)
	if err != nil {
		a.fatal("Error exporting: %v", err)
	}
	fmt.Printf("%s\n", data)
}

func handleBackup(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("backup", flag.ExitOnError)
	cfgPath := configFlag(fs)
	purge := fs.Bool("purge", false, "Remove the stored snapshot instead of uploading one")
	parseFlags(fs, args)

	if *purge {
		purgeBackup(ctx, *cfgPath)
		return
	}

	a := openApp(*cfgPath)
	defer a.close()

	snap, err := a.db.Snapshot(ctx)
	if err != nil {
		a.fatal("Error creating snapshot: %v", err)
	}
	export, err := a.db.ExportJSON(ctx)
	if err != nil {
		a.fatal("Error exporting: %v", err)
	}

	store := s3backup.New(a.cfg.Backup.Bucket, a.cfg.Backup.Prefix, a.cfg.Backup.Gzip,
		a.log.WithField("bucket", a.cfg.Backup.Bucket))
	if err := store.Init(ctx); err != nil {
		a.fatal("Error initializing backup store: %v", err)
	}
	err = store.SaveSnapshot(ctx, map[string][]byte{
		internal.SnapshotDBName:  snap,
		internal.SnapshotJSONKey: export,
	})
	if err != nil {
		a.fatal("Error uploading snapshot: %v", err)
	}
	fmt.Printf("Backed up %v to s3://%v/%v\n", a.cfg.Storage.Path, a.cfg.Backup.Bucket,
		a.cfg.Backup.Prefix)
}

func purgeBackup(ctx context.Context, cfgPath string) {
	cfg, log := loadConfig(cfgPath)

	store := s3backup.New(cfg.Backup.Bucket, cfg.Backup.Prefix, cfg.Backup.Gzip,
		log.WithField("bucket", cfg.Backup.Bucket))
	if err := store.Init(ctx); err != nil {
		log.Fatalf("Error initializing backup store: %v", err)
	}
	err := store.DeleteSnapshot(ctx, []string{internal.SnapshotDBName,
		internal.SnapshotJSONKey})
	if err != nil {
		log.Fatalf("Error removing snapshot: %v", err)
	}
	fmt.Printf("Removed snapshot from s3://%v/%v\n", cfg.Backup.Bucket, cfg.Backup.Prefix)
}

func handleRestore(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("restore", flag.ExitOnError)
	cfgPath := configFlag(fs)
	force := fs.Bool("force", false, "Overwrite an existing database")
	parseFlags(fs, args)

	// the database must not be open while its file is replaced
	cfg, log := loadConfig(*cfgPath)
	if _, err := os.Stat(cfg.Storage.Path); err == nil && !*force {
		log.Fatalf("%v exists; rerun with --force to overwrite it", cfg.Storage.Path)
	}

	store := s3backup.New(cfg.Backup.Bucket, cfg.Backup.Prefix, cfg.Backup.Gzip,
		log.WithField("bucket", cfg.Backup.Bucket))
	if err := store.Init(ctx); err != nil {
		log.Fatalf("Error initializing backup store: %v", err)
	}
	data, err := store.Get(ctx, internal.SnapshotDBName)
	if errors.Is(err, s3backup.ErrNotFound) {
		log.Fatalf("No snapshot in s3://%v/%v", cfg.Backup.Bucket, cfg.Backup.Prefix)
	}
	if err != nil {
		log.Fatalf("Error downloading snapshot: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Storage.Path), 0o755); err != nil {
		log.Fatalf("Error creating %v: %v", filepath.Dir(cfg.Storage.Path), err)
	}
	tmp := cfg.Storage.Path + ".restore"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		log.Fatalf("Error writing %v: %v", tmp, err)
	}
	// stale WAL files would be replayed over the restored snapshot
	for _, suffix := range []string{"-wal", "-shm"} {
		os.Remove(cfg.Storage.Path + suffix)
	}
	if err := os.Rename(tmp, cfg.Storage.Path); err != nil {
		log.Fatalf("Error replacing %v: %v", cfg.Storage.Path, err)
	}
	fmt.Printf("Restored %v (%d bytes)\n", cfg.Storage.Path, len(data))
}
