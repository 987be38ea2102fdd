// Package tablesplit decomposes a Word table into independently usable regions.
//
// A table taken from word/document.xml is first resolved into its logical grid
// (w:gridSpan and w:vMerge markers), rendered as text for a classifier, and
// described by a list of regions. Each region names a contiguous run of rows
// and a type:
//
//   - Form: plain form rows, copied as they are
//   - RepeatTable: a header row and repeating data rows, reduced to a two-row template
//   - Left_RepeatTable / Right_RepeatTable: label columns next to a repeating block
//
// # Quick Start
//
//	tables, err := tablesplit.LoadTables("form.docx")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	regions := []tablesplit.RegionMeta{
//	    {Name: "applicant", Rows: []int{1, 2}, Type: tablesplit.RegionForm},
//	    {Name: "history", Rows: []int{3, 4, 5}, Type: tablesplit.RegionRepeatTable},
//	}
//
//	if errs := tablesplit.Verify(tables[0], regions); len(errs) > 0 {
//	    // feed errs back to the classifier
//	}
//
//	results, _ := tablesplit.Split(tables[0], regions)
//	results, _ = tablesplit.PostProcess(results)
//	extracted, _ := tablesplit.ExtractResults(results)
//
// # Classification loop
//
// Pipeline drives a Classifier: it sends Prompt(table, feedback), parses the
// answer with ParseRegions and verifies it, retrying with the verification
// errors as feedback until the regions are clean or Config.MaxAttempts is reached.
//
//	p, err := tablesplit.NewPipeline(myClassifier, nil)
//	result, err := p.Process(ctx, table)
//
// # Configuration
//
// Config can be set programmatically or from the environment:
//
//	TABLESPLIT_LOG_LEVEL     debug, info, warn, error or off
//	TABLESPLIT_MAX_ATTEMPTS  classifier attempts per table
//	TABLESPLIT_INDENT        indentation of serialized sub-tables
//
// Nothing in this package mutates the table passed in; sub-tables are deep copies.
package tablesplit
