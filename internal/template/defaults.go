package template

// DefaultChapterFormat renders one chapter as a timestamp link followed by its title.
const DefaultChapterFormat = "- [{{timestamp}}]({{link}}) {{chapter}}"

// DefaultHashtagFormat renders one hashtag as an Obsidian tag.
const DefaultHashtagFormat = "#{{hashtag}}"

// DefaultTemplate is the note layout used until the user saves their own.
const DefaultTemplate = `---
title: "{{title}}"
channel: "{{channelName}}"
subscribers: {{subscribers}}
length: "{{length}}"
published: {{publishDate}}
created: {{noteCreated}}
url: {{youtubeUrl}}
---
{{thumbnail}}

## Chapters

{{chapters}}

## Description

{{description}}

{{hashtags}}
`
