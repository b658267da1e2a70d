// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package main

import "github.com/js-arias/command"

func init() {
	app.Add(matrixFilesGuide)
	app.Add(paramFilesGuide)
	app.Add(projectsGuide)
	app.Add(terracesGuide)
}

var projectsGuide = &command.Command{
	Usage: "projects",
	Short: "about project files",
	Long: `
Terrace requires several files to read and process the data. To reduce the
burden of keeping track of many files, a single project file is used to hold
the reference of all files required in the analysis. This guide explains the
structure of the file, but most of the time, the best and most secure way to
edit or view this file is by using terrace commands.

A project file is a tab-delimited file with the following fields:

	- dataset  for the kind of file
	- path     for the path of the file

Here is an example file:

	# terrace project files
	dataset	path
	matrix	matrix.tab
	params	params.toml
	tree	tree.nwk

The valid file types are:

- Presence-absence matrix. Defined by the dataset keyword "matrix". This file
  contains the presence-absence matrix of taxa on gene partitions in the form
  of a tab-delimited file. The recommended way to add a matrix is by using the
  command 'terrace matrix add'.
- Reference tree. Defined by the dataset keyword "tree". This file contains
  the reference tree in parenthetical (newick) format. If the file has more
  than one tree, only the first one is used. The recommended way to add a
  tree is by using the command 'terrace tree add'.
- Search parameters. Defined by the dataset keyword "params". This file
  contains the limits of the terrace search. The recommended way to edit the
  parameters is by using the command 'terrace param'.
- Sequence alignment. Defined by the dataset keyword "alignment". A FASTA
  file with the aligned sequences of the taxa. It is added by the command
  'terrace matrix add' when the matrix is built from an alignment.
- Partition file. Defined by the dataset keyword "partitions". A partition
  file that defines the gene partitions of the alignment.
	`,
}

var matrixFilesGuide = &command.Command{
	Usage: "matrix-files",
	Short: "about presence-absence matrix files",
	Long: `
A presence-absence matrix indicates, for each taxon, the gene partitions in
which the taxon has data. In terrace, a matrix is stored as a tab-delimited
file with a header. The first column is the taxon name, and the other columns
are the partitions. A value of 1 indicates that the taxon is present in the
partition, and a value of 0 that the taxon is absent.

Here is an example file:

	taxon	COI	CytB	18S
	Homo	1	1	1
	Pan	1	0	1
	Gorilla	0	1	1

Every taxon must be present in at least one partition.

A matrix can also be imported from a plain table, in which the first line
gives the number of taxa and partitions, and each following line is a taxon
name followed by the presence (1) or absence (0) values:

	3 3
	Homo 1 1 1
	Pan 1 0 1
	Gorilla 0 1 1

Finally, a matrix can be built from a FASTA alignment and a partition file,
in which each line defines a partition as a set of column ranges:

	DNA, COI = 1-650
	DNA, CytB = 651-1790
	DNA, 18S = 1791-3600, 3700-3900

A taxon is present in a partition if its sequence has at least one
character in the partition columns that is not a gap or missing data.
	`,
}

var paramFilesGuide = &command.Command{
	Usage: "param-files",
	Short: "about search parameter files",
	Long: `
The search parameters define the limits of the terrace search, as well as
the way in which the initial tree is selected. The parameters are stored in
a tab-delimited file with the fields "parameter" and "value", or, if the file
name ends with ".toml", in a TOML file.

Here is an example of a tab-delimited file:

	# terrace search parameters
	parameter	value
	maxintermediate	0
	maxtrees	1000000
	maxtime	3600
	printlimit	1000
	rooted	false
	order	heuristic

And the same parameters as TOML:

	maxintermediate = 0
	maxtrees = 1000000
	maxtime = 3600.0
	printlimit = 1000
	rooted = false
	order = "heuristic"

The valid parameters are:

	maxintermediate  maximum number of intermediate trees visited
	maxtrees         maximum number of terrace trees generated
	maxtime          maximum search time, in seconds
	printlimit       maximum number of trees written into the output
	rooted           if true, trees are rooted
	order            the policy to select the initial tree

A value of 0 in a limit means no limit. The valid values for order are
"heuristic" (the default), in which the taxa of the largest partition are
used as the initial tree, and "matrix", in which the taxa of the first
partition are used as the initial tree.
	`,
}

var terracesGuide = &command.Command{
	Usage: "terraces",
	Short: "about phylogenetic terraces",
	Long: `
When the data of a phylogenetic analysis is partitioned (for example, by
genes) and some taxa are missing in some partitions, many different trees
can have exactly the same score. For each partition, the score of a tree
depends only on the subtree induced by the taxa present in that partition.
The set of all the trees that induce the same partition subtrees as a
reference tree is called a phylogenetic terrace.

Command 'terrace generate' enumerates the trees of the terrace of the
reference tree. The search starts from the subtree induced on the taxa of a
single partition, which is shared by all the trees of the terrace, and then
inserts the remaining taxa, one at a time, on all the branches in which the insertion keeps the induced
partition subtrees equal to the subtrees induced by the reference tree.

Command 'terrace check' tests whether a set of query trees are on the
terrace of the reference tree.

As the number of trees on a terrace can be huge, the search can be limited
by the number of generated trees, the number of intermediate trees, or the
search time. If a limit is reached, the trees found are reported as a
partial result. See 'terrace help param-files'.
	`,
}
