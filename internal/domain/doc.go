// Package domain defines the core business entities of the skill-training
// platform: the three-level content hierarchy (Skill, SubSkill, TrainingUnit),
// the composition layer that assembles units into plans and curriculum days,
// the per-user progress and completion entities derived from user actions, and
// the referral fields on User. Entities validate themselves; persistence and
// transactional invariants live in the store layer.
package domain
