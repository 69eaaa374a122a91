// Package task provides in-memory background task processing for the
// summary generation pipeline. Tasks are ephemeral: a summary job
// exists only for the lifetime of one attempt and is never persisted, so a
// process restart simply drops in-flight work (the note stays pending and a
// regenerate request re-enters the pipeline).
package task
