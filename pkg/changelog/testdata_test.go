package changelog

const fixtureChangelog = `# Changelog

## [Unreleased]

### 🆕 Added

_Список новой функциональности._

### 🛠 Changed

_Список изменившейся функциональности._

### 🪲 Fixed

_Список исправлений багов._

### 📦 Support

_Список правок для обеспечения технической поддержки._
`
