package cli

// Commands is the full command grammar.
type Commands struct {
	Globals `embed:""`

	InitSchema        InitSchemaCmd        `cmd:"" name:"init-schema" help:"Create or migrate the database schema"`
	InitPolicy        InitPolicyCmd        `cmd:"" name:"init-policy" help:"Initialize and lock the hermeneutical policy"`
	VerifyPolicy      VerifyPolicyCmd      `cmd:"" name:"verify-policy" help:"Recompute and compare the policy checksum"`
	ImportBible       ImportBibleCmd       `cmd:"" name:"import-bible" help:"Import a translation from CSV, Excel or plaintext"`
	ImportStrongs     ImportStrongsCmd     `cmd:"" name:"import-strongs" help:"Import a Strong's lexicon CSV"`
	ImportAnnotations ImportAnnotationsCmd `cmd:"" name:"import-annotations" help:"Install core passages, verse notes and Greek margins"`
	ImportInterlinear ImportInterlinearCmd `cmd:"" name:"import-interlinear" help:"Import Greek interlinear tokens from the Berean tables"`
	ListTranslations  ListTranslationsCmd  `cmd:"" name:"list-translations" help:"List registered translations"`
	Search            SearchCmd            `cmd:"" help:"Search verse text"`
	Passage           PassageCmd           `cmd:"" help:"Show a passage"`
	Context           ContextCmd           `cmd:"" help:"Show verses around a reference"`
	Compare           CompareCmd           `cmd:"" help:"Compare a passage across translations"`
	Report            ReportCmd            `cmd:"" help:"Write text reports"`
	BuildSpine        BuildSpineCmd        `cmd:"" name:"build-spine" help:"Build the canonical verse spine"`
	Strongs           StrongsCmd           `cmd:"" help:"Look up a Strong's number"`
	Interlinear       InterlinearCmd       `cmd:"" help:"Show the interlinear words of a verse"`
	Xref              XrefCmd              `cmd:"" help:"Cross references by shared Strong's numbers"`
	Status            StatusCmd            `cmd:"" help:"Show database status"`
	Version           VersionCmd           `cmd:"" help:"Print version information"`
}
