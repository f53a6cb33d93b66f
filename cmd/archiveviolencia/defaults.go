package main

import "github.com/JoaoCarabetta/arquivo-da-violencia-sub001/internal/pipeline"

// defaultQuery is the fallback search term used when --query is omitted.
const defaultQuery = "Rio de Janeiro"

const defaultWorkers = pipeline.DefaultWorkers

// defaultSweepLimit bounds a single sweep invocation for subcommands that
// don't expose their own --limit flag.
const defaultSweepLimit = 10000
