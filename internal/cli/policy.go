package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/mrlokans/compendium/internal/database/policies"
	"github.com/mrlokans/compendium/internal/policy"
)

var ErrPolicyMismatch = errors.New("policy checksum mismatch")

type InitPolicyCmd struct {
	Preface string `help:"Policy preface text file (default from config)" type:"path"`
	Body    string `help:"Policy body text file (default from config)" type:"path"`
}

func (c *InitPolicyCmd) Run(app *App) error {
	preface, body := c.Preface, c.Body
	if preface == "" {
		preface = app.Config.Policy.PrefacePath
	}
	if body == "" {
		body = app.Config.Policy.BodyPath
	}

	db, err := app.openWrite()
	if err != nil {
		return err
	}
	defer db.Close()

	res, err := policy.NewService(policies.NewRepository(db.DB)).Init(context.Background(), preface, body)
	if err != nil {
		return err
	}

	if res.Created {
		app.println("Hermeneutical policy initialized and locked.")
	} else {
		app.println("Hermeneutical policy already present; no changes made (locked).")
	}
	app.printf("Version:   %s\n", res.Policy.Version)
	app.printf("Checksum:  %s\n", res.Policy.Checksum)
	app.printf("Effective: %s\n", res.Policy.EffectiveUTC)
	return nil
}

type VerifyPolicyCmd struct {
	Files bool `help:"Also compare the configured preface/body files with the stored checksum"`
}

func (c *VerifyPolicyCmd) Run(app *App) error {
	db, err := app.openRead()
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	svc := policy.NewService(policies.NewRepository(db.DB))
	res, err := svc.Verify(ctx)
	if err != nil {
		return err
	}

	app.printf("Stored checksum:   %s\n", res.Policy.Checksum)
	app.printf("Computed checksum: %s\n", res.Computed)
	if !res.OK() {
		return fmt.Errorf("%w: stored policy text was modified", ErrPolicyMismatch)
	}

	if c.Files {
		ok, err := svc.MatchesFiles(ctx, app.Config.Policy.PrefacePath, app.Config.Policy.BodyPath)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: policy source files differ from the stored policy", ErrPolicyMismatch)
		}
		app.println("Policy source files match.")
	}

	app.println("Policy checksum OK.")
	return nil
}
