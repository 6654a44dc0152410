package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mcdev12/holdtight/go/internal/dbconfig"
	"github.com/mcdev12/holdtight/go/internal/questions"
)

// sets maps each question set to the asset file it is seeded from.
var sets = []struct {
	name string
	file string
}{
	{"default", "go/internal/assets/questions.json"},
	{"hard", "go/internal/assets/questions_hard.json"},
}

func main() {
	ctx := context.Background()

	dbConfig := dbconfig.NewConfigFromEnv()

	// 1) Apply schema migrations, then connect using shared dbconfig
	if err := dbConfig.Migrate(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	pool, err := dbConfig.Connect(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	for _, set := range sets {
		// 2) Load the JSON snapshot
		loaded, err := questions.FileSource{Path: set.file}.Questions(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}

		// 3) Upsert and count
		var (
			total    = len(loaded)
			inserted int
			skipped  int
			errs     int
		)
		for i, q := range loaded {
			if err := q.Validate(); err != nil {
				fmt.Fprintf(os.Stderr, "skipping %s #%d: %v\n", set.name, i, err)
				skipped++
				continue
			}
			cmdTag, err := pool.Exec(ctx, `
            INSERT INTO questions (question_set, position, question, answer)
            VALUES ($1, $2, $3, $4)
            ON CONFLICT (question_set, position) DO NOTHING
        `,
				set.name, i, q.Text, q.Answer,
			)
			if err != nil {
				fmt.Fprintf(os.Stderr, "error inserting %s #%d: %v\n", set.name, i, err)
				errs++
				continue
			}
			if cmdTag.RowsAffected() == 1 {
				inserted++
			} else {
				skipped++
			}
		}

		// 4) Print summary
		fmt.Printf(
			"Questions seed %q complete: %d total, %d inserted, %d skipped, %d errors\n",
			set.name, total, inserted, skipped, errs,
		)
	}
}
