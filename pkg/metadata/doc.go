// Package metadata derives the sample info and covariate files read by the mapping and
// differential expression pipelines.
//
// Sample info lists, per sequencing sample, the input files grouped by read group together with
// the library strandedness. It is built by scanning an input directory with a path pattern such
// as "{sample}_R{mate}.fastq.gz", or imported from a YAML document or a delimited table.
//
// A covariate file has one row per output artifact of a mapping step (matched with a pattern
// such as "{step}/{sample}.{extension}"), five mandatory columns and any number of user defined
// grouping columns. Grouping columns must label every sample exactly once.
//
// Every operation builds its result in memory; writing is a separate step that renders the
// whole file before touching the disk.
package metadata
