package config

// AppDirName is the folder under the OS per-user config directory that
// holds all persisted state.
const AppDirName = "lectorpdf"
