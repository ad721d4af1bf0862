package main

// samples are classified when no comment is given on the command line or via -file
var samples = []string{
	"to make their code more readable. I would like to see something like this in the API.",
	"cluster service : add a cluster service based on JGroups Raft",
	"Would you be able to build an unit test of this sample code so we can take that and add " +
		"to the tests of camel-cxf and work on a fix.",
	"I'm raising a new Jira for this.",
	"We also need to update the mail wiki page with this feature.",
	"Fix pom.xml files to support nexus based release process",
	"The component docs are in adoc files with the source code - the wiki is dead so don't " +
		"update there. Make sure to fix/update in adoc, and if you want you can do wiki too. " +
		"But wiki only changes will be lost in the future when wiki is discarded completely",
}
