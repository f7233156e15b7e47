// Package pipeline builds javadoc jars for Android SDK bindings and
// registers them with the IDE.
//
// A [Target] names the binding sources, the fragment archive with their
// reference pages, the Java package and the jar to produce. For each target
// the [Driver] runs these stages in order:
//
//  1. archive: open the fragment archive.
//  2. annotate: copy every source into a scratch directory with reference
//     documentation attached (see package annotate).
//  3. javadoc: run javadoc on the annotated sources.
//  4. jar: pack the generated HTML into the SDK docs directory.
//  5. cleanup: remove the scratch directory.
//  6. register: back up the IDE's jdk.table.xml and add the jar as a
//     javadoc root (see package jdktable).
//
// Stages are best effort. A failing stage is recorded in the
// [TargetReport] and later stages still run, so a broken javadoc run does
// not leave scratch files behind. Only an unreadable SDK makes
// [Driver.Run] return an error.
//
// Targets are usually the built-in [DefaultTargets], but can be read from a
// YAML file:
//
//	targets:
//	  - name: GLES
//	    archive: html-es2.0.zip
//	    package: android.opengl
//	    sources:
//	      - android/opengl/EGL14.java
//	      - android/opengl/GLES20.java
//	    jar: android-gles-javadoc.jar
//
// [TargetSchema] describes that format as JSON Schema.
package pipeline
