package main

import "runtime"

func goVersionString() string {
	return runtime.Version()
}
