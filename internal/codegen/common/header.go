package common

// FileHeader opens every generated stub file.
const FileHeader = "-- THIS FILE WAS AUTOMATICALLY GENERATED. DO NOT EDIT.\n\n---@meta\n\n"
