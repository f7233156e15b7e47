// Package profile writes pprof profiles of xjavadoc runs.
//
// Register the flags on the root command and wrap execution in a
// [Session]:
//
//	cfg := profile.NewConfig()
//	cfg.RegisterFlags(rootCmd.PersistentFlags())
//
//	s := cfg.NewSession()
//	err := s.Start()
//	// ... run ...
//	err = s.Stop()
//
// Users then enable profiling with --cpu-profile=cpu.prof or
// --heap-profile=heap.prof.
package profile
